package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is the bookkeeping scope a group of users shares. Every other
// resource belongs to exactly one ledger and is never visible outside it.
type Ledger struct {
	DefaultModel
	Name            string `gorm:"uniqueIndex:ledger_name"`
	Note            string
	Currency        string
	DefaultSourceID *uuid.UUID // Used for expenses that do not name a funding source
}

// BeforeSave trims whitespace from all strings.
func (l *Ledger) BeforeSave(_ *gorm.DB) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Note = strings.TrimSpace(l.Note)
	l.Currency = strings.TrimSpace(l.Currency)

	return nil
}
