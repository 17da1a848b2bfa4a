package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/money"
	"github.com/splitbook/backend/internal/types"
)

// Status is the API representation of a period status. Value and
// balance are derived from the four summed fields, never stored.
type Status struct {
	Cost    money.Money `json:"cost" example:"-500.00"`
	Benefit money.Money `json:"benefit" example:"500.00"`
	Income  money.Money `json:"income" example:"740.00"`
	Split   money.Money `json:"split" example:"-740.00"`
	Value   money.Money `json:"value" example:"0.00"`
	Balance money.Money `json:"balance" example:"0.00"`
}

func newStatus(s ledger.Status) Status {
	return Status{
		Cost:    s.Cost,
		Benefit: s.Benefit,
		Income:  s.Income,
		Split:   s.Split,
		Value:   s.Value(),
		Balance: s.Balance(),
	}
}

// Month is the API representation of a month collection.
type Month struct {
	Month             types.Month `json:"month"`
	Expenses          []Expense   `json:"expenses"`
	StartStatus       Status      `json:"startStatus"`
	MonthStatus       Status      `json:"monthStatus"`
	EndStatus         Status      `json:"endStatus"`
	UnconfirmedBefore bool        `json:"unconfirmedBefore"` // True when bookings before the month are still unconfirmed
}

type MonthResponse struct {
	Data  *Month  `json:"data"`
	Error *string `json:"error"`
}

// GetMonth returns a ledger's expenses and statuses for one month.
// Missing recurring occurrences up to the end of the month are
// materialized as a side effect.
func GetMonth(c *gin.Context) {
	var uri URIMonth
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), MonthResponse{Error: &e})
		return
	}

	collection, err := service().Month(uri.ID.UUID, types.MonthOf(uri.Month))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MonthResponse{Error: &e})
		return
	}

	expenses := make([]Expense, 0, len(collection.Expenses))
	for _, model := range collection.Expenses {
		expenses = append(expenses, newExpense(model))
	}

	data := Month{
		Month:             collection.Month,
		Expenses:          expenses,
		StartStatus:       newStatus(collection.StartStatus),
		MonthStatus:       newStatus(collection.MonthStatus),
		EndStatus:         newStatus(collection.EndStatus),
		UnconfirmedBefore: collection.UnconfirmedBefore,
	}
	c.JSON(http.StatusOK, MonthResponse{Data: &data})
}
