package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/splitbook/backend/internal/httputil"
	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/money"
	"golang.org/x/exp/slices"
)

// RegisterExpenseRoutes registers the routes for expenses with the
// RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetExpenses)
		r.POST("", CreateExpense)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
		r.OPTIONS("/:id/recurring", httputil.OptionsPost)
		r.POST("/:id/recurring", ConvertRecurring)
	}
}

func service() *ledger.Service {
	return ledger.NewService(models.DB)
}

type DivisionItemEditable struct {
	UserID uuid.UUID           `json:"userId"`
	Type   models.DivisionType `json:"type" example:"cost"`
	Sum    money.Money         `json:"sum" example:"-3.51"`
}

type ExpenseEditable struct {
	LedgerID   uuid.UUID              `json:"ledgerId"`
	Type       models.ExpenseType     `json:"type" example:"expense" default:"expense"`
	Sum        money.Money            `json:"sum" example:"7.01"`
	Date       time.Time              `json:"date" example:"2017-01-22T00:00:00Z"`
	SourceID   uuid.UUID              `json:"sourceId"` // Nil selects the ledger's default source
	CategoryID uuid.UUID              `json:"categoryId"`
	UserID     uuid.UUID              `json:"userId"`
	Confirmed  bool                   `json:"confirmed" default:"false"`
	Note       string                 `json:"note" default:""`
	Division   []DivisionItemEditable `json:"division"` // Derived from the source shares when empty
}

func (editable ExpenseEditable) input() ledger.ExpenseInput {
	expenseType := editable.Type
	if expenseType == "" {
		expenseType = models.TypeExpense
	}

	division := make([]models.DivisionItem, 0, len(editable.Division))
	for _, item := range editable.Division {
		division = append(division, models.DivisionItem{
			UserID: item.UserID,
			Type:   item.Type,
			Sum:    item.Sum,
		})
	}

	return ledger.ExpenseInput{
		Type:       expenseType,
		Sum:        editable.Sum,
		Date:       editable.Date,
		SourceID:   editable.SourceID,
		CategoryID: editable.CategoryID,
		UserID:     editable.UserID,
		Confirmed:  editable.Confirmed,
		Note:       editable.Note,
		Division:   division,
	}
}

// Expense is the API representation of an Expense.
type Expense struct {
	models.DefaultModel
	ExpenseEditable
	RecurringExpenseID *uuid.UUID `json:"recurringExpenseId"`
}

func newExpense(model models.Expense) Expense {
	division := make([]DivisionItemEditable, 0, len(model.Division))
	for _, item := range model.Division {
		division = append(division, DivisionItemEditable{
			UserID: item.UserID,
			Type:   item.Type,
			Sum:    item.Sum,
		})
	}

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			LedgerID:   model.LedgerID,
			Type:       model.Type,
			Sum:        model.Sum,
			Date:       model.Date,
			SourceID:   model.SourceID,
			CategoryID: model.CategoryID,
			UserID:     model.UserID,
			Confirmed:  model.Confirmed,
			Note:       model.Note,
			Division:   division,
		},
		RecurringExpenseID: model.RecurringExpenseID,
	}
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`
	Error *string  `json:"error"`
}

type ExpenseListResponse struct {
	Data  []Expense `json:"data"`
	Error *string   `json:"error"`
}

// TargetQuery is the scope of an update or delete for recurring
// occurrences. It defaults to single.
type TargetQuery struct {
	Target ledger.Target `form:"target" default:"single"`
}

func (t TargetQuery) target() ledger.Target {
	if t.Target == "" {
		return ledger.TargetSingle
	}

	return t.Target
}

// CreateExpense books a new expense. The division is derived from the
// funding source's shares when the request does not carry one.
func CreateExpense(c *gin.Context) {
	var editable ExpenseEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &e})
		return
	}

	model, err := service().CreateExpense(editable.LedgerID, editable.input())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(model)
	c.JSON(http.StatusCreated, ExpenseResponse{Data: &data})
}

type ExpenseQueryFilter struct {
	Ledger    string `form:"ledger"`
	FromDate  string `form:"fromDate"`
	UntilDate string `form:"untilDate"`
	Type      string `form:"type"`
	Note      string `form:"note"` // Note glob pattern, e.g. "rent*"
}

var expenseTypes = []models.ExpenseType{models.TypeExpense, models.TypeIncome, models.TypeTransfer}

// GetExpenses returns expenses filtered by the query. Templates are
// never part of the result.
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &e})
		return
	}

	q := models.DB.Preload("Division").
		Where("template = ?", false).
		Order("date(date) DESC, datetime(created_at) DESC")

	if filter.Ledger != "" {
		q = q.Where("ledger_id = ?", filter.Ledger)
	}

	if filter.FromDate != "" {
		q = q.Where("date >= date(?)", filter.FromDate)
	}

	if filter.UntilDate != "" {
		q = q.Where("date < date(?)", filter.UntilDate)
	}

	if filter.Type != "" {
		if !slices.Contains(expenseTypes, models.ExpenseType(filter.Type)) {
			e := ledger.ErrExpenseType.Error()
			c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &e})
			return
		}

		q = q.Where("type = ?", filter.Type)
	}

	var expenses []models.Expense
	if err := q.Find(&expenses).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, model := range expenses {
		if filter.Note != "" && !glob.Glob(filter.Note, model.Note) {
			continue
		}

		data = append(data, newExpense(model))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// GetExpense returns a specific expense with its division.
func GetExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var model models.Expense
	if err := models.DB.Preload("Division").First(&model, uri.ID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(model)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// UpdateExpense updates an expense, rederiving its division. The
// target query parameter widens the update for recurring occurrences.
func UpdateExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var query TargetQuery
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &e})
		return
	}

	var editable ExpenseEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &e})
		return
	}

	model, err := service().UpdateExpense(editable.LedgerID, uri.ID.UUID, query.target(), editable.input())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(model)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// DeleteExpense deletes an expense. The target query parameter widens
// the delete for recurring occurrences.
func DeleteExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var query TargetQuery
	if err := c.Bind(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var model models.Expense
	if err := models.DB.First(&model, uri.ID).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := service().DeleteExpense(model.LedgerID, model.ID, query.target()); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
