package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/splitbook/backend/internal/models"
	"gorm.io/gorm"
)

// Target selects which occurrences of a recurring expense an update or
// delete affects.
type Target string

const (
	TargetSingle Target = "single"
	TargetAll    Target = "all"
	TargetAfter  Target = "after"
)

// Valid reports whether the target is one of the known scopes.
func (t Target) Valid() bool {
	switch t {
	case TargetSingle, TargetAll, TargetAfter:
		return true
	}

	return false
}

// recurrenceState is the lifecycle state of a recurring expense.
type recurrenceState uint8

const (
	stateActive recurrenceState = iota
	stateTerminated
)

// lifecycle lists the allowed state transitions. Terminated
// recurrences may be terminated again with an earlier cap.
var lifecycle = map[recurrenceState][]recurrenceState{
	stateActive:     {stateTerminated},
	stateTerminated: {stateTerminated},
}

func stateOf(r models.RecurringExpense) recurrenceState {
	if r.OccursUntil != nil {
		return stateTerminated
	}

	return stateActive
}

func canTransition(from, to recurrenceState) bool {
	for _, allowed := range lifecycle[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// Engine materializes missing occurrences of recurring expenses and
// applies scoped edits. All methods operate on the transaction handle
// they are given; the caller owns the transaction boundary.
type Engine struct{}

// Period is a validated recurrence period.
type Period struct {
	Amount uint              `json:"amount"`
	Unit   models.PeriodUnit `json:"unit"`
}

// Validate checks the period for a positive amount and a known unit.
func (p Period) Validate() error {
	if p.Amount == 0 {
		return fmt.Errorf("%w: the amount must be at least 1", ErrPeriod)
	}

	if !p.Unit.Valid() {
		return fmt.Errorf("%w: unknown unit %q", ErrPeriod, p.Unit)
	}

	return nil
}

// CreateMissing materializes all occurrences of the ledger's recurring
// expenses with dates before until. It only ever looks forward from the
// stored cursor, so repeated calls are idempotent. The cursor is
// claimed with a compare-and-advance update, so two concurrent
// backfills over the same recurrence serialize instead of
// double-generating occurrences.
func (Engine) CreateMissing(tx *gorm.DB, ledgerID uuid.UUID, until time.Time) error {
	var recurrences []models.RecurringExpense
	err := tx.Where("ledger_id = ? AND next_missing < date(?)", ledgerID, until).Find(&recurrences).Error
	if err != nil {
		return err
	}

	for _, recurrence := range recurrences {
		if err := backfill(tx, recurrence, until); err != nil {
			return err
		}
	}

	return nil
}

// backfill generates the missing occurrences of one recurrence.
func backfill(tx *gorm.DB, recurrence models.RecurringExpense, until time.Time) error {
	dates, cursor := missingDates(recurrence, until)
	if len(dates) == 0 && cursor.Equal(recurrence.NextMissing) {
		return nil
	}

	// Compare-and-advance: if another transaction has moved the cursor
	// since we read it, it also generated the occurrences.
	claim := tx.Model(&models.RecurringExpense{}).
		Where("id = ? AND next_missing = ?", recurrence.ID, recurrence.NextMissing).
		Update("next_missing", cursor)
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		log.Debug().Str("recurrence", recurrence.ID.String()).Msg("cursor already advanced, skipping backfill")
		return nil
	}

	if len(dates) == 0 {
		return nil
	}

	var template models.Expense
	err := tx.Preload("Division").First(&template, recurrence.TemplateExpenseID).Error
	if err != nil {
		return err
	}

	for _, date := range dates {
		occurrence := template.Occurrence(date, recurrence.ID)
		if err := tx.Create(&occurrence).Error; err != nil {
			return err
		}
	}

	return nil
}

// missingDates returns the occurrence dates to generate and the new
// cursor value. Dates are bounded by until (exclusive) and by the
// termination date (inclusive) when one is set. A period that does not
// move the date forward generates nothing, so a malformed row cannot
// loop or flood the ledger.
func missingDates(recurrence models.RecurringExpense, until time.Time) ([]time.Time, time.Time) {
	var dates []time.Time

	date := recurrence.NextMissing
	for date.Before(until) {
		if recurrence.OccursUntil != nil && date.After(*recurrence.OccursUntil) {
			break
		}

		next := recurrence.Advance(date)
		if !next.After(date) {
			break
		}

		dates = append(dates, date)
		date = next
	}

	return dates, date
}

// CreateFromExpense converts an existing occurrence into a recurring
// expense. The occurrence is cloned into a template, the recurrence
// starts one period after the occurrence's date, and both rows are
// linked to the new recurrence.
func (Engine) CreateFromExpense(tx *gorm.DB, expenseID uuid.UUID, period Period) (models.RecurringExpense, error) {
	if err := period.Validate(); err != nil {
		return models.RecurringExpense{}, err
	}

	var expense models.Expense
	err := tx.Preload("Division").First(&expense, expenseID).Error
	if err != nil {
		return models.RecurringExpense{}, err
	}

	if expense.RecurringExpenseID != nil || expense.Template {
		return models.RecurringExpense{}, ErrAlreadyRecurring
	}

	template := expense.Occurrence(expense.Date, uuid.Nil)
	template.Template = true
	template.Confirmed = expense.Confirmed
	template.RecurringExpenseID = nil
	if err := tx.Create(&template).Error; err != nil {
		return models.RecurringExpense{}, err
	}

	recurrence := models.RecurringExpense{
		LedgerID:          expense.LedgerID,
		TemplateExpenseID: template.ID,
		PeriodAmount:      period.Amount,
		PeriodUnit:        period.Unit,
	}
	recurrence.NextMissing = recurrence.Advance(expense.Date)
	if err := tx.Create(&recurrence).Error; err != nil {
		return models.RecurringExpense{}, err
	}

	err = tx.Model(&models.Expense{}).
		Where("id IN ?", []uuid.UUID{expense.ID, template.ID}).
		Update("recurring_expense_id", recurrence.ID).Error
	if err != nil {
		return models.RecurringExpense{}, err
	}

	return recurrence, nil
}

// Delete removes an occurrence with the given scope:
//
//	single: only the referenced occurrence
//	all:    every occurrence, the template and the recurrence itself
//	after:  occurrences on or after the referenced occurrence's date;
//	        the recurrence is terminated at that date, earlier
//	        occurrences stay governed by it
//
// The template itself cannot be deleted with target single: the
// recurrence still references it for the backfill.
func (e Engine) Delete(tx *gorm.DB, expense models.Expense, target Target) error {
	if target == TargetSingle {
		if expense.Template {
			return ErrTemplateScope
		}

		return deleteExpenses(tx, []uuid.UUID{expense.ID})
	}

	if expense.RecurringExpenseID == nil {
		return ErrNotRecurring
	}

	var recurrence models.RecurringExpense
	err := tx.First(&recurrence, *expense.RecurringExpenseID).Error
	if err != nil {
		return err
	}

	switch target {
	case TargetAll:
		ids, err := occurrenceIDs(tx, recurrence.ID, nil)
		if err != nil {
			return err
		}

		if err := deleteExpenses(tx, ids); err != nil {
			return err
		}

		return tx.Delete(&recurrence).Error

	case TargetAfter:
		pivot := expense.Date
		ids, err := occurrenceIDs(tx, recurrence.ID, &pivot)
		if err != nil {
			return err
		}

		if err := deleteExpenses(tx, ids); err != nil {
			return err
		}

		return terminate(tx, recurrence, pivot)
	}

	return fmt.Errorf("%w: %q", ErrUpdateTarget, target)
}

// terminate moves a recurrence into the terminated state, capping its
// validity at the pivot date.
func terminate(tx *gorm.DB, recurrence models.RecurringExpense, pivot time.Time) error {
	if !canTransition(stateOf(recurrence), stateTerminated) {
		return ErrLifecycle
	}

	return tx.Model(&recurrence).Update("occurs_until", pivot).Error
}

// occurrenceIDs returns the expenses of a recurrence. With a pivot only
// the non-template occurrences on or after the pivot are returned,
// without one every occurrence including the template.
func occurrenceIDs(tx *gorm.DB, recurrenceID uuid.UUID, pivot *time.Time) ([]uuid.UUID, error) {
	q := tx.Model(&models.Expense{}).Where("recurring_expense_id = ?", recurrenceID)
	if pivot != nil {
		q = q.Where("template = ? AND date >= date(?)", false, *pivot)
	}

	var ids []uuid.UUID
	err := q.Pluck("id", &ids).Error
	return ids, err
}

// deleteExpenses removes expenses together with their division rows.
func deleteExpenses(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := tx.Where("expense_id IN ?", ids).Delete(&models.DivisionItem{}).Error
	if err != nil {
		return err
	}

	return tx.Where("id IN ?", ids).Delete(&models.Expense{}).Error
}

// Siblings returns the expenses an update with scope all or after
// affects in addition to the referenced occurrence: the template and,
// for after, the occurrences dated on or after the pivot.
func (Engine) Siblings(tx *gorm.DB, expense models.Expense, target Target) ([]models.Expense, error) {
	if expense.RecurringExpenseID == nil {
		return nil, ErrNotRecurring
	}

	q := tx.Preload("Division").
		Where("recurring_expense_id = ? AND id != ?", *expense.RecurringExpenseID, expense.ID)

	switch target {
	case TargetAll:
	case TargetAfter:
		q = q.Where("template = ? OR date >= date(?)", true, expense.Date)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUpdateTarget, target)
	}

	var siblings []models.Expense
	err := q.Find(&siblings).Error
	return siblings, err
}
