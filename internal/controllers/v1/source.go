package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/httputil"
	"github.com/splitbook/backend/internal/models"
	"gorm.io/gorm"
)

// RegisterSourceRoutes registers the routes for funding sources with
// the RouterGroup that is passed.
func RegisterSourceRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetSources)
		r.POST("", CreateSource)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetSource)
		r.PATCH("/:id", UpdateSource)
		r.DELETE("/:id", DeleteSource)
	}
}

type SourceUserEditable struct {
	UserID uuid.UUID `json:"userId"`
	Share  uint      `json:"share" example:"1"`
}

type SourceEditable struct {
	LedgerID uuid.UUID            `json:"ledgerId"`
	Name     string               `json:"name" example:"Joint account"`
	Note     string               `json:"note" default:""`
	Users    []SourceUserEditable `json:"users"`
}

func (editable SourceEditable) model() models.Source {
	users := make([]models.SourceUser, 0, len(editable.Users))
	for _, u := range editable.Users {
		users = append(users, models.SourceUser{UserID: u.UserID, Share: u.Share})
	}

	return models.Source{
		LedgerID: editable.LedgerID,
		Name:     editable.Name,
		Note:     editable.Note,
		Users:    users,
	}
}

// Source is the API representation of a funding source.
type Source struct {
	models.DefaultModel
	SourceEditable
}

func newSource(model models.Source) Source {
	users := make([]SourceUserEditable, 0, len(model.Users))
	for _, u := range model.Users {
		users = append(users, SourceUserEditable{UserID: u.UserID, Share: u.Share})
	}

	return Source{
		DefaultModel: model.DefaultModel,
		SourceEditable: SourceEditable{
			LedgerID: model.LedgerID,
			Name:     model.Name,
			Note:     model.Note,
			Users:    users,
		},
	}
}

type SourceResponse struct {
	Data  *Source `json:"data"`
	Error *string `json:"error"`
}

type SourceListResponse struct {
	Data  []Source `json:"data"`
	Error *string  `json:"error"`
}

// CreateSource creates a new funding source with its member shares.
func CreateSource(c *gin.Context) {
	var editable SourceEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, SourceResponse{Error: &e})
		return
	}

	model := editable.model()
	if err := models.DB.Create(&model).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	data := newSource(model)
	c.JSON(http.StatusCreated, SourceResponse{Data: &data})
}

// GetSources returns all sources, optionally filtered by ledger.
func GetSources(c *gin.Context) {
	var filter struct {
		Ledger string `form:"ledger"`
	}
	_ = c.Bind(&filter)

	q := models.DB.Preload("Users")
	if filter.Ledger != "" {
		q = q.Where("ledger_id = ?", filter.Ledger)
	}

	var sources []models.Source
	if err := q.Find(&sources).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), SourceListResponse{Error: &e})
		return
	}

	data := make([]Source, 0, len(sources))
	for _, model := range sources {
		data = append(data, newSource(model))
	}

	c.JSON(http.StatusOK, SourceListResponse{Data: data})
}

// GetSource returns a specific source with its member shares.
func GetSource(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	var model models.Source
	if err := models.DB.Preload("Users").First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	data := newSource(model)
	c.JSON(http.StatusOK, SourceResponse{Data: &data})
}

// UpdateSource updates a source, replacing its member shares when the
// request carries any.
func UpdateSource(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	var model models.Source
	if err := models.DB.Preload("Users").First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	var editable SourceEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, SourceResponse{Error: &e})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model).Select("Name", "Note").Updates(editable.model()).Error; err != nil {
			return err
		}

		if len(editable.Users) == 0 {
			return nil
		}

		if err := tx.Where("source_id = ?", model.ID).Delete(&models.SourceUser{}).Error; err != nil {
			return err
		}

		users := make([]models.SourceUser, 0, len(editable.Users))
		for _, u := range editable.Users {
			users = append(users, models.SourceUser{SourceID: model.ID, UserID: u.UserID, Share: u.Share})
		}

		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		model.Users = users
		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SourceResponse{Error: &e})
		return
	}

	data := newSource(model)
	c.JSON(http.StatusOK, SourceResponse{Data: &data})
}

// DeleteSource deletes a source and its member shares.
func DeleteSource(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var model models.Source
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", model.ID).Delete(&models.SourceUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
