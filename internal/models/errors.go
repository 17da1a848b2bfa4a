package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrLedgerNameNotUnique   = errors.New("the ledger name must be unique")
	ErrUserNameNotUnique     = errors.New("the user name must be unique for the ledger")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique for the ledger")
	ErrSourceNameNotUnique   = errors.New("the source name must be unique for the ledger")
)
