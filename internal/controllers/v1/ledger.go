package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/httputil"
	"github.com/splitbook/backend/internal/models"
)

// RegisterLedgerRoutes registers the routes for ledgers with the
// RouterGroup that is passed.
func RegisterLedgerRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetLedgers)
		r.POST("", CreateLedger)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetLedger)
		r.PATCH("/:id", UpdateLedger)
		r.DELETE("/:id", DeleteLedger)
		r.OPTIONS("/:id/months/:month", httputil.OptionsGet)
		r.GET("/:id/months/:month", GetMonth)
	}
}

type LedgerEditable struct {
	Name            string     `json:"name" example:"Flat 7"`
	Note            string     `json:"note" example:"Shared flat bookkeeping" default:""`
	Currency        string     `json:"currency" example:"€" default:""`
	DefaultSourceID *uuid.UUID `json:"defaultSourceId"` // Used for expenses without a source
}

func (editable LedgerEditable) model() models.Ledger {
	return models.Ledger{
		Name:            editable.Name,
		Note:            editable.Note,
		Currency:        editable.Currency,
		DefaultSourceID: editable.DefaultSourceID,
	}
}

// Ledger is the API representation of a Ledger.
type Ledger struct {
	models.DefaultModel
	LedgerEditable
}

func newLedger(model models.Ledger) Ledger {
	return Ledger{
		DefaultModel: model.DefaultModel,
		LedgerEditable: LedgerEditable{
			Name:            model.Name,
			Note:            model.Note,
			Currency:        model.Currency,
			DefaultSourceID: model.DefaultSourceID,
		},
	}
}

type LedgerResponse struct {
	Data  *Ledger `json:"data"`
	Error *string `json:"error"`
}

type LedgerListResponse struct {
	Data  []Ledger `json:"data"`
	Error *string  `json:"error"`
}

// CreateLedger creates a new ledger.
func CreateLedger(c *gin.Context) {
	var editable LedgerEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, LedgerResponse{Error: &e})
		return
	}

	model := editable.model()
	if err := models.DB.Create(&model).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	data := newLedger(model)
	c.JSON(http.StatusCreated, LedgerResponse{Data: &data})
}

// GetLedgers returns all ledgers.
func GetLedgers(c *gin.Context) {
	var ledgers []models.Ledger
	if err := models.DB.Find(&ledgers).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerListResponse{Error: &e})
		return
	}

	data := make([]Ledger, 0, len(ledgers))
	for _, model := range ledgers {
		data = append(data, newLedger(model))
	}

	c.JSON(http.StatusOK, LedgerListResponse{Data: data})
}

// GetLedger returns a specific ledger.
func GetLedger(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	var model models.Ledger
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	data := newLedger(model)
	c.JSON(http.StatusOK, LedgerResponse{Data: &data})
}

// UpdateLedger updates a ledger.
func UpdateLedger(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	var model models.Ledger
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	var editable LedgerEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, LedgerResponse{Error: &e})
		return
	}

	if err := models.DB.Model(&model).Select("Name", "Note", "Currency", "DefaultSourceID").Updates(editable.model()).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	data := newLedger(model)
	c.JSON(http.StatusOK, LedgerResponse{Data: &data})
}

// DeleteLedger deletes a ledger.
func DeleteLedger(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var model models.Ledger
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
