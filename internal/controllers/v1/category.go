package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/httputil"
	"github.com/splitbook/backend/internal/models"
)

// RegisterCategoryRoutes registers the routes for categories with the
// RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetCategories)
		r.POST("", CreateCategory)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetDelete)
		r.GET("/:id", GetCategory)
		r.DELETE("/:id", DeleteCategory)
	}
}

type CategoryEditable struct {
	LedgerID uuid.UUID `json:"ledgerId"`
	Name     string    `json:"name" example:"Groceries"`
	Note     string    `json:"note" default:""`
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		LedgerID: editable.LedgerID,
		Name:     editable.Name,
		Note:     editable.Note,
	}
}

// Category is the API representation of a Category.
type Category struct {
	models.DefaultModel
	CategoryEditable
}

func newCategory(model models.Category) Category {
	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			LedgerID: model.LedgerID,
			Name:     model.Name,
			Note:     model.Note,
		},
	}
}

type CategoryResponse struct {
	Data  *Category `json:"data"`
	Error *string   `json:"error"`
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`
	Error *string    `json:"error"`
}

// CreateCategory creates a new category.
func CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CategoryResponse{Error: &e})
		return
	}

	model := editable.model()
	if err := models.DB.Create(&model).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	data := newCategory(model)
	c.JSON(http.StatusCreated, CategoryResponse{Data: &data})
}

// GetCategories returns all categories, optionally filtered by ledger.
func GetCategories(c *gin.Context) {
	var filter struct {
		Ledger string `form:"ledger"`
	}
	_ = c.Bind(&filter)

	q := models.DB
	if filter.Ledger != "" {
		q = q.Where("ledger_id = ?", filter.Ledger)
	}

	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryListResponse{Error: &e})
		return
	}

	data := make([]Category, 0, len(categories))
	for _, model := range categories {
		data = append(data, newCategory(model))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// GetCategory returns a specific category.
func GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	var model models.Category
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	data := newCategory(model)
	c.JSON(http.StatusOK, CategoryResponse{Data: &data})
}

// DeleteCategory deletes a category.
func DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var model models.Category
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
