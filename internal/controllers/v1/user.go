package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/httputil"
	"github.com/splitbook/backend/internal/models"
)

// RegisterUserRoutes registers the routes for users with the
// RouterGroup that is passed.
func RegisterUserRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetUsers)
		r.POST("", CreateUser)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetDelete)
		r.GET("/:id", GetUser)
		r.DELETE("/:id", DeleteUser)
	}
}

type UserEditable struct {
	LedgerID uuid.UUID `json:"ledgerId"`
	Name     string    `json:"name" example:"Anna"`
}

func (editable UserEditable) model() models.User {
	return models.User{
		LedgerID: editable.LedgerID,
		Name:     editable.Name,
	}
}

// User is the API representation of a User.
type User struct {
	models.DefaultModel
	UserEditable
}

func newUser(model models.User) User {
	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			LedgerID: model.LedgerID,
			Name:     model.Name,
		},
	}
}

type UserResponse struct {
	Data  *User   `json:"data"`
	Error *string `json:"error"`
}

type UserListResponse struct {
	Data  []User  `json:"data"`
	Error *string `json:"error"`
}

// CreateUser creates a new user.
func CreateUser(c *gin.Context) {
	var editable UserEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	model := editable.model()
	if err := models.DB.Create(&model).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(model)
	c.JSON(http.StatusCreated, UserResponse{Data: &data})
}

// GetUsers returns all users, optionally filtered by ledger.
func GetUsers(c *gin.Context) {
	var filter struct {
		Ledger string `form:"ledger"`
	}
	_ = c.Bind(&filter)

	q := models.DB
	if filter.Ledger != "" {
		q = q.Where("ledger_id = ?", filter.Ledger)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), UserListResponse{Error: &e})
		return
	}

	data := make([]User, 0, len(users))
	for _, model := range users {
		data = append(data, newUser(model))
	}

	c.JSON(http.StatusOK, UserListResponse{Data: data})
}

// GetUser returns a specific user.
func GetUser(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var model models.User
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(model)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// DeleteUser deletes a user.
func DeleteUser(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var model models.User
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DB.Delete(&model).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
