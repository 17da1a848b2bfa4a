package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/money"
	"github.com/splitbook/backend/internal/types"
	"gorm.io/gorm"
)

// Service orchestrates the engine for the request-level use cases.
// Every operation runs in a single database transaction, so a partial
// division or a partial backfill is never committed.
type Service struct {
	db         *gorm.DB
	calculator *Calculator
	engine     Engine
	aggregator Aggregator
}

// NewService returns a service on the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:         db,
		calculator: NewCalculator(money.Default, NewSplitter(money.Default)),
	}
}

// ExpenseInput is a validated create or update request for an expense.
type ExpenseInput struct {
	Type       models.ExpenseType
	Sum        money.Money
	Date       time.Time
	SourceID   uuid.UUID // Nil selects the ledger's default source
	CategoryID uuid.UUID
	UserID     uuid.UUID
	Confirmed  bool
	Note       string
	Division   []models.DivisionItem
}

// CreateExpense books a new expense. The division is derived from the
// funding source when the input does not carry one.
func (s *Service) CreateExpense(ledgerID uuid.UUID, input ExpenseInput) (models.Expense, error) {
	var created models.Expense

	err := s.db.Transaction(func(tx *gorm.DB) error {
		source, err := s.resolve(tx, ledgerID, input)
		if err != nil {
			return err
		}

		expense := models.Expense{
			LedgerID:   ledgerID,
			UserID:     input.UserID,
			CategoryID: input.CategoryID,
			SourceID:   source.ID,
			Type:       input.Type,
			Sum:        input.Sum,
			Date:       input.Date,
			Note:       input.Note,
			Confirmed:  input.Confirmed,
			Division:   input.Division,
		}

		division, err := s.calculator.Determine(expense, source)
		if err != nil {
			return err
		}

		expense.Division = division
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}

		created = expense
		return nil
	})

	return created, err
}

// UpdateExpense replaces an expense's fields and division atomically.
// For occurrences of a recurring expense, target widens the update to
// the template and sibling occurrences (all) or to those on or after
// the occurrence's date (after). Scoped updates keep every affected
// row's date, the occurrence's stored date is the pivot; only a single
// update can move a date.
func (s *Service) UpdateExpense(ledgerID, id uuid.UUID, target Target, input ExpenseInput) (models.Expense, error) {
	if !target.Valid() {
		return models.Expense{}, ErrUpdateTarget
	}

	var updated models.Expense

	err := s.db.Transaction(func(tx *gorm.DB) error {
		expense, err := s.load(tx, ledgerID, id)
		if err != nil {
			return err
		}

		source, err := s.resolve(tx, ledgerID, input)
		if err != nil {
			return err
		}

		date := input.Date
		if target != TargetSingle {
			date = expense.Date
		}

		if err := s.apply(tx, &expense, input, source, date); err != nil {
			return err
		}
		updated = expense

		if target == TargetSingle {
			return nil
		}

		siblings, err := s.engine.Siblings(tx, expense, target)
		if err != nil {
			return err
		}

		for _, sibling := range siblings {
			if err := s.apply(tx, &sibling, input, source, sibling.Date); err != nil {
				return err
			}
		}

		return nil
	})

	return updated, err
}

// apply writes the input onto one expense row, rederiving its division.
func (s *Service) apply(tx *gorm.DB, expense *models.Expense, input ExpenseInput, source models.Source, date time.Time) error {
	expense.Type = input.Type
	expense.Sum = input.Sum
	expense.Date = date
	expense.UserID = input.UserID
	expense.CategoryID = input.CategoryID
	expense.SourceID = source.ID
	expense.Note = input.Note
	expense.Confirmed = input.Confirmed
	expense.Division = input.Division

	division, err := s.calculator.Determine(*expense, source)
	if err != nil {
		return err
	}

	err = tx.Where("expense_id = ?", expense.ID).Delete(&models.DivisionItem{}).Error
	if err != nil {
		return err
	}

	expense.Division = nil
	if err := tx.Save(expense).Error; err != nil {
		return err
	}

	for i := range division {
		division[i].ExpenseID = expense.ID
		if err := tx.Create(&division[i]).Error; err != nil {
			return err
		}
	}

	expense.Division = division
	return nil
}

// DeleteExpense removes an expense. For recurring occurrences the
// target selects the scope, see Engine.Delete.
func (s *Service) DeleteExpense(ledgerID, id uuid.UUID, target Target) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		expense, err := s.load(tx, ledgerID, id)
		if err != nil {
			return err
		}

		return s.engine.Delete(tx, expense, target)
	})
}

// ConvertToRecurring turns an existing occurrence into a recurring
// expense with the given period.
func (s *Service) ConvertToRecurring(ledgerID, id uuid.UUID, period Period) (models.RecurringExpense, error) {
	var recurrence models.RecurringExpense

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.load(tx, ledgerID, id); err != nil {
			return err
		}

		var err error
		recurrence, err = s.engine.CreateFromExpense(tx, id, period)
		return err
	})

	return recurrence, err
}

// Month returns the month collection for a ledger, materializing any
// missing recurring occurrences first.
func (s *Service) Month(ledgerID uuid.UUID, month types.Month) (MonthCollection, error) {
	var collection MonthCollection

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Ledger{}, ledgerID).Error; err != nil {
			return err
		}

		var err error
		collection, err = s.aggregator.ByMonth(tx, ledgerID, month)
		return err
	})

	return collection, err
}

// load fetches an expense and verifies it belongs to the ledger.
func (s *Service) load(tx *gorm.DB, ledgerID, id uuid.UUID) (models.Expense, error) {
	var expense models.Expense
	err := tx.Preload("Division").First(&expense, id).Error
	if err != nil {
		return models.Expense{}, err
	}

	if expense.LedgerID != ledgerID {
		return models.Expense{}, ErrLedgerScope
	}

	return expense, nil
}

// resolve verifies the referenced resources exist and belong to the
// ledger, falling back to the ledger's default source when the input
// does not name one.
func (s *Service) resolve(tx *gorm.DB, ledgerID uuid.UUID, input ExpenseInput) (models.Source, error) {
	var ledgerRow models.Ledger
	if err := tx.First(&ledgerRow, ledgerID).Error; err != nil {
		return models.Source{}, err
	}

	sourceID := input.SourceID
	if sourceID == uuid.Nil && ledgerRow.DefaultSourceID != nil {
		sourceID = *ledgerRow.DefaultSourceID
	}

	var source models.Source
	if err := tx.Preload("Users").First(&source, sourceID).Error; err != nil {
		return models.Source{}, err
	}
	if source.LedgerID != ledgerID {
		return models.Source{}, ErrLedgerScope
	}

	var user models.User
	if err := tx.First(&user, input.UserID).Error; err != nil {
		return models.Source{}, err
	}
	if user.LedgerID != ledgerID {
		return models.Source{}, ErrLedgerScope
	}

	var category models.Category
	if err := tx.First(&category, input.CategoryID).Error; err != nil {
		return models.Source{}, err
	}
	if category.LedgerID != ledgerID {
		return models.Source{}, ErrLedgerScope
	}

	return source, nil
}
