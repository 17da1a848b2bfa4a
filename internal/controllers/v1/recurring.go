package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/models"
)

// RecurringExpense is the API representation of a RecurringExpense.
type RecurringExpense struct {
	models.DefaultModel
	LedgerID          uuid.UUID     `json:"ledgerId"`
	TemplateExpenseID uuid.UUID     `json:"templateExpenseId"`
	Period            ledger.Period `json:"period"`
}

func newRecurringExpense(model models.RecurringExpense) RecurringExpense {
	return RecurringExpense{
		DefaultModel:      model.DefaultModel,
		LedgerID:          model.LedgerID,
		TemplateExpenseID: model.TemplateExpenseID,
		Period: ledger.Period{
			Amount: model.PeriodAmount,
			Unit:   model.PeriodUnit,
		},
	}
}

type RecurringExpenseResponse struct {
	Data  *RecurringExpense `json:"data"`
	Error *string           `json:"error"`
}

// ConvertRecurring converts an existing expense into a recurring
// expense with the period given in the request body. It fails when the
// expense already belongs to a recurring expense.
func ConvertRecurring(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringExpenseResponse{Error: &e})
		return
	}

	var period ledger.Period
	if err := c.ShouldBindJSON(&period); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, RecurringExpenseResponse{Error: &e})
		return
	}

	var model models.Expense
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringExpenseResponse{Error: &e})
		return
	}

	recurrence, err := service().ConvertToRecurring(model.LedgerID, model.ID, period)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringExpenseResponse{Error: &e})
		return
	}

	data := newRecurringExpense(recurrence)
	c.JSON(http.StatusCreated, RecurringExpenseResponse{Data: &data})
}
