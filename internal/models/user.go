package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a member of a ledger.
type User struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:user_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:user_name_ledger_id"`
}

// BeforeSave trims whitespace from all strings.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	return nil
}

// BeforeCreate verifies that the ledger exists.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)
	return tx.First(&Ledger{}, u.LedgerID).Error
}
