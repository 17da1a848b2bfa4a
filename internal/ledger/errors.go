package ledger

import (
	"errors"
)

var (
	ErrNoShares         = errors.New("the funding source has no shares to split over")
	ErrDivisionSum      = errors.New("the division does not sum to the expense amount")
	ErrExpenseType      = errors.New("unrecognized expense type")
	ErrPeriod           = errors.New("the recurrence period is invalid")
	ErrAlreadyRecurring = errors.New("the expense already belongs to a recurring expense")
	ErrNotRecurring     = errors.New("the expense does not belong to a recurring expense")
	ErrUpdateTarget     = errors.New("the target must be one of single, all, after")
	ErrTemplateScope    = errors.New("the template of a recurring expense can only be deleted together with its occurrences")
	ErrLedgerScope      = errors.New("the resource does not belong to the requested ledger")
	ErrLifecycle        = errors.New("invalid recurrence lifecycle transition")
)
