package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/money"
	"gorm.io/gorm"
)

// ExpenseType determines how a division is balanced against the sum.
type ExpenseType string

const (
	TypeExpense  ExpenseType = "expense"
	TypeIncome   ExpenseType = "income"
	TypeTransfer ExpenseType = "transfer"
)

// Expense is a single booked transaction of a ledger. The template flag
// marks the synthetic source row of a recurring expense; templates are
// never part of normal query results or balances.
type Expense struct {
	DefaultModel
	Ledger             Ledger    `json:"-"`
	LedgerID           uuid.UUID `gorm:"index"`
	User               User      `json:"-"`
	UserID             uuid.UUID // The member who booked the expense
	Category           Category  `json:"-"`
	CategoryID         uuid.UUID
	Source             Source `json:"-"`
	SourceID           uuid.UUID
	Type               ExpenseType
	Sum                money.Money
	Date               time.Time // Time of day is ignored, bookings are per day
	Note               string
	Confirmed          bool
	Template           bool
	RecurringExpenseID *uuid.UUID `gorm:"index"`
	Division           []DivisionItem
}

// AfterFind enforces UTC dates, see DefaultModel.AfterFind.
func (e *Expense) AfterFind(tx *gorm.DB) error {
	if err := e.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	e.Date = e.Date.In(time.UTC)
	return nil
}

// BeforeSave sets the timezone for the date to UTC and trims strings.
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Note = strings.TrimSpace(e.Note)

	if e.RecurringExpenseID != nil && *e.RecurringExpenseID == uuid.Nil {
		e.RecurringExpenseID = nil
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

// Occurrence clones the expense onto a date as a regular booking of the
// given recurring expense. The division is copied entry by entry so the
// clone balances exactly like its template.
func (e Expense) Occurrence(date time.Time, recurringExpenseID uuid.UUID) Expense {
	division := make([]DivisionItem, 0, len(e.Division))
	for _, item := range e.Division {
		division = append(division, DivisionItem{
			UserID: item.UserID,
			Type:   item.Type,
			Sum:    item.Sum,
		})
	}

	return Expense{
		LedgerID:           e.LedgerID,
		UserID:             e.UserID,
		CategoryID:         e.CategoryID,
		SourceID:           e.SourceID,
		Type:               e.Type,
		Sum:                e.Sum,
		Date:               date,
		Note:               e.Note,
		Confirmed:          false,
		Template:           false,
		RecurringExpenseID: &recurringExpenseID,
		Division:           division,
	}
}
