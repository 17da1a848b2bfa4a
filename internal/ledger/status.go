package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/money"
	"github.com/splitbook/backend/internal/types"
	"gorm.io/gorm"
)

// Status is the cumulative effect of all divisions in a date range.
// Statuses are additive: the status of two adjacent ranges is the
// field-wise sum of their statuses.
type Status struct {
	Cost    money.Money `json:"cost"`
	Benefit money.Money `json:"benefit"`
	Income  money.Money `json:"income"`
	Split   money.Money `json:"split"`
}

// Value is the net effect of the range, cost+benefit+income+split.
func (s Status) Value() money.Money {
	return s.Cost.Add(s.Benefit).Add(s.Income).Add(s.Split)
}

// Balance is the negated value.
func (s Status) Balance() money.Money {
	return s.Value().Neg()
}

// Add returns the field-wise sum of two statuses.
func (s Status) Add(o Status) Status {
	return Status{
		Cost:    s.Cost.Add(o.Cost),
		Benefit: s.Benefit.Add(o.Benefit),
		Income:  s.Income.Add(o.Income),
		Split:   s.Split.Add(o.Split),
	}
}

// MonthCollection is the result of a month view: the month's expenses
// and the statuses before, within and at the end of the month.
type MonthCollection struct {
	Month             types.Month
	Expenses          []models.Expense
	StartStatus       Status
	MonthStatus       Status
	EndStatus         Status
	UnconfirmedBefore bool
}

// Aggregator computes period balances. Recurrence backfill runs before
// any read so that lazily materialized occurrences are part of the
// result.
type Aggregator struct {
	engine Engine
}

// ByMonth assembles the month collection for a ledger. The end status
// is always the sum of the start and month statuses, never an
// independent computation, which makes the additivity of balances hold
// by construction.
func (a Aggregator) ByMonth(tx *gorm.DB, ledgerID uuid.UUID, month types.Month) (MonthCollection, error) {
	start := month.Start()
	next := month.Next().Start()

	if err := a.engine.CreateMissing(tx, ledgerID, next); err != nil {
		return MonthCollection{}, err
	}

	startStatus, err := statusBetween(tx, ledgerID, time.Time{}, start)
	if err != nil {
		return MonthCollection{}, err
	}

	monthStatus, err := statusBetween(tx, ledgerID, start, next)
	if err != nil {
		return MonthCollection{}, err
	}

	var expenses []models.Expense
	err = tx.Preload("Division").
		Where("ledger_id = ? AND template = ?", ledgerID, false).
		Where("date >= date(?) AND date < date(?)", start, next).
		Order("date(date) ASC, datetime(created_at) ASC").
		Find(&expenses).Error
	if err != nil {
		return MonthCollection{}, err
	}

	var unconfirmed int64
	err = tx.Model(&models.Expense{}).
		Where("ledger_id = ? AND template = ? AND confirmed = ?", ledgerID, false, false).
		Where("date < date(?)", start).
		Count(&unconfirmed).Error
	if err != nil {
		return MonthCollection{}, err
	}

	return MonthCollection{
		Month:             month,
		Expenses:          expenses,
		StartStatus:       startStatus,
		MonthStatus:       monthStatus,
		EndStatus:         startStatus.Add(monthStatus),
		UnconfirmedBefore: unconfirmed > 0,
	}, nil
}

// statusBetween folds the divisions of all non-template expenses in
// [from, until) into a status. A zero from leaves the range open at the
// beginning.
func statusBetween(tx *gorm.DB, ledgerID uuid.UUID, from, until time.Time) (Status, error) {
	q := tx.Model(&models.DivisionItem{}).
		Joins("JOIN expenses ON expenses.id = division_items.expense_id").
		Where("expenses.ledger_id = ? AND expenses.template = ? AND expenses.deleted_at IS NULL", ledgerID, false).
		Where("expenses.date < date(?)", until)

	if !from.IsZero() {
		q = q.Where("expenses.date >= date(?)", from)
	}

	var items []models.DivisionItem
	if err := q.Find(&items).Error; err != nil {
		return Status{}, err
	}

	var status Status
	for _, item := range items {
		switch item.Type {
		case models.DivisionCost:
			status.Cost = status.Cost.Add(item.Sum)
		case models.DivisionBenefit:
			status.Benefit = status.Benefit.Add(item.Sum)
		case models.DivisionIncome:
			status.Income = status.Income.Add(item.Sum)
		case models.DivisionSplit:
			status.Split = status.Split.Add(item.Sum)
		}
	}

	return status, nil
}
