// Package v1 implements the HTTP API of splitbook.
package v1

import (
	"time"

	sb_uuid "github.com/splitbook/backend/internal/uuid"
)

type URIID struct {
	ID sb_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	URIID
	Month time.Time `uri:"month" time_format:"2006-01" time_utc:"1" example:"2017-03" binding:"required"` // Year and month in YYYY-MM format
}

// httpError contains the error message for a failed request.
type httpError struct {
	Error string `json:"error" example:"there is no expense matching your query"`
}
