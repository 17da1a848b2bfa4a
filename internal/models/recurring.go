package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PeriodUnit is the calendar unit of a recurrence period.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodWeek  PeriodUnit = "week"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

// Valid reports whether the unit is one of the known calendar units.
func (u PeriodUnit) Valid() bool {
	switch u {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}

	return false
}

// RecurringExpense is the definition of a periodically repeating
// expense. Occurrences are materialized lazily: NextMissing is the
// cursor to the earliest occurrence date that has not been generated
// yet. A set OccursUntil terminates the recurrence at that date
// (inclusive).
type RecurringExpense struct {
	DefaultModel
	Ledger            Ledger    `json:"-"`
	LedgerID          uuid.UUID `gorm:"index"`
	TemplateExpenseID uuid.UUID
	PeriodAmount      uint
	PeriodUnit        PeriodUnit
	NextMissing       time.Time
	OccursUntil       *time.Time
}

// AfterFind enforces UTC dates, see DefaultModel.AfterFind.
func (r *RecurringExpense) AfterFind(tx *gorm.DB) error {
	if err := r.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	r.NextMissing = r.NextMissing.In(time.UTC)
	if r.OccursUntil != nil {
		t := r.OccursUntil.In(time.UTC)
		r.OccursUntil = &t
	}

	return nil
}

// Advance returns the occurrence date one period after t.
func (r RecurringExpense) Advance(t time.Time) time.Time {
	amount := int(r.PeriodAmount)

	switch r.PeriodUnit {
	case PeriodDay:
		return t.AddDate(0, 0, amount)
	case PeriodWeek:
		return t.AddDate(0, 0, 7*amount)
	case PeriodMonth:
		return t.AddDate(0, amount, 0)
	case PeriodYear:
		return t.AddDate(amount, 0, 0)
	}

	return t
}
