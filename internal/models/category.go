package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups expenses for reporting.
type Category struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:category_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:category_name_ledger_id"`
	Note     string
}

// BeforeSave trims whitespace from all strings.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

// BeforeCreate verifies that the ledger exists.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)
	return tx.First(&Ledger{}, c.LedgerID).Error
}
