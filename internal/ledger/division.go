package ledger

import (
	"fmt"

	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/money"
)

// Calculator determines balanced divisions for expenses. It is a pure
// function of its inputs: entries supplied by the caller are validated,
// missing entries are derived from the funding source's shares.
type Calculator struct {
	factory  money.Factory
	splitter *Splitter
}

// NewCalculator returns a calculator using the given splitter.
func NewCalculator(factory money.Factory, splitter *Splitter) *Calculator {
	return &Calculator{factory: factory, splitter: splitter}
}

// Determine computes the division entries for an expense. Any entries
// already present on the expense are kept after validating their sums;
// the missing sides are derived so that the result balances:
//
//	expense:  cost = -sum, benefit = +sum
//	income:   income = +sum, split = -sum
//	transfer: transferor = -sum, transferee = +sum
func (c *Calculator) Determine(expense models.Expense, source models.Source) ([]models.DivisionItem, error) {
	switch expense.Type {
	case models.TypeExpense:
		primary, err := c.leg(expense, source, models.DivisionCost, expense.Sum.Neg(), nil)
		if err != nil {
			return nil, err
		}

		secondary, err := c.leg(expense, source, models.DivisionBenefit, expense.Sum, primary)
		if err != nil {
			return nil, err
		}

		return append(primary, secondary...), nil

	case models.TypeIncome:
		primary := supplied(expense, models.DivisionIncome)
		if len(primary) == 0 {
			// The full income defaults to the booking member.
			primary = []models.DivisionItem{{
				UserID: expense.UserID,
				Type:   models.DivisionIncome,
				Sum:    expense.Sum,
			}}
		} else if err := c.validate(primary, expense.Sum); err != nil {
			return nil, err
		}

		secondary, err := c.leg(expense, source, models.DivisionSplit, expense.Sum.Neg(), nil)
		if err != nil {
			return nil, err
		}

		return append(primary, secondary...), nil

	case models.TypeTransfer:
		primary, err := c.leg(expense, source, models.DivisionTransferor, expense.Sum.Neg(), nil)
		if err != nil {
			return nil, err
		}

		secondary, err := c.leg(expense, source, models.DivisionTransferee, expense.Sum, primary)
		if err != nil {
			return nil, err
		}

		return append(primary, secondary...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrExpenseType, expense.Type)
}

// leg returns the validated entries of one division type. When no
// entries were supplied, the leg is the negated counterpart when one is
// given, and derived from the source shares otherwise.
func (c *Calculator) leg(expense models.Expense, source models.Source, divisionType models.DivisionType, want money.Money, counterpart []models.DivisionItem) ([]models.DivisionItem, error) {
	entries := supplied(expense, divisionType)
	if len(entries) > 0 {
		if err := c.validate(entries, want); err != nil {
			return nil, err
		}

		return entries, nil
	}

	if counterpart != nil {
		return negated(counterpart, divisionType), nil
	}

	return c.fromShares(source, want, divisionType)
}

// fromShares splits the required leg total over the source's member
// shares. The splitter handles negative totals, so both the cost and
// the benefit side can be derived directly.
func (c *Calculator) fromShares(source models.Source, total money.Money, divisionType models.DivisionType) ([]models.DivisionItem, error) {
	shares := make([]Share, 0, len(source.Users))
	for _, u := range source.Users {
		shares = append(shares, Share{UserID: u.UserID, Weight: u.Share})
	}

	parts, err := c.splitter.SplitByShares(total, shares)
	if err != nil {
		return nil, err
	}

	entries := make([]models.DivisionItem, 0, len(parts))
	for _, part := range parts {
		entries = append(entries, models.DivisionItem{
			UserID: part.UserID,
			Type:   divisionType,
			Sum:    part.Sum,
		})
	}

	return entries, nil
}

// validate checks that the entries sum to exactly the required total.
func (c *Calculator) validate(entries []models.DivisionItem, want money.Money) error {
	got := c.factory.Zero()
	for _, entry := range entries {
		got = got.Add(entry.Sum)
	}

	if !got.Equal(want) {
		return fmt.Errorf("%w: %s entries sum to %s, need %s", ErrDivisionSum, entries[0].Type, got, want)
	}

	return nil
}

// supplied returns the caller-provided entries of one division type.
func supplied(expense models.Expense, divisionType models.DivisionType) []models.DivisionItem {
	var entries []models.DivisionItem
	for _, entry := range expense.Division {
		if entry.Type == divisionType {
			entries = append(entries, models.DivisionItem{
				UserID: entry.UserID,
				Type:   entry.Type,
				Sum:    entry.Sum,
			})
		}
	}

	return entries
}

// negated maps a division leg to its exact sign-flipped counterpart.
func negated(entries []models.DivisionItem, divisionType models.DivisionType) []models.DivisionItem {
	flipped := make([]models.DivisionItem, 0, len(entries))
	for _, entry := range entries {
		flipped = append(flipped, models.DivisionItem{
			UserID: entry.UserID,
			Type:   divisionType,
			Sum:    entry.Sum.Neg(),
		})
	}

	return flipped
}
