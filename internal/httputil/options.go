// Package httputil provides helpers for HTTP handlers.
package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OptionsGet sets the allowed methods to OPTIONS and GET.
func OptionsGet(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET")
	c.Status(http.StatusNoContent)
}

// OptionsPost sets the allowed methods to OPTIONS and POST.
func OptionsPost(c *gin.Context) {
	c.Header("allow", "OPTIONS, POST")
	c.Status(http.StatusNoContent)
}

// OptionsGetPost sets the allowed methods to OPTIONS, GET and POST.
func OptionsGetPost(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET, POST")
	c.Status(http.StatusNoContent)
}

// OptionsGetDelete sets the allowed methods to OPTIONS, GET and DELETE.
func OptionsGetDelete(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET, DELETE")
	c.Status(http.StatusNoContent)
}

// OptionsGetPatchDelete sets the allowed methods to OPTIONS, GET, PATCH and DELETE.
func OptionsGetPatchDelete(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET, PATCH, DELETE")
	c.Status(http.StatusNoContent)
}
