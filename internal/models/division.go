package models

import (
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/money"
)

// DivisionType classifies one entry of an expense division.
//
// Every division must balance: cost entries sum to the negated expense
// sum, benefit entries to the sum itself. Income/split and
// transferor/transferee follow the same symmetry.
type DivisionType string

const (
	DivisionCost       DivisionType = "cost"
	DivisionBenefit    DivisionType = "benefit"
	DivisionIncome     DivisionType = "income"
	DivisionSplit      DivisionType = "split"
	DivisionTransferor DivisionType = "transferor"
	DivisionTransferee DivisionType = "transferee"
)

// DivisionItem is one member's part of an expense division.
type DivisionItem struct {
	DefaultModel
	ExpenseID uuid.UUID `json:"-" gorm:"index"`
	User      User      `json:"-"`
	UserID    uuid.UUID
	Type      DivisionType
	Sum       money.Money
}
