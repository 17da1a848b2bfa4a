package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source is a funding source: a pool of money owned by the ledger's
// members pro rata to their shares. Divisions that are not given
// explicitly are derived from these shares.
type Source struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:source_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:source_name_ledger_id"`
	Note     string
	Users    []SourceUser `json:"users"`
}

// SourceUser is one member's ownership share of a source.
type SourceUser struct {
	DefaultModel
	SourceID uuid.UUID `json:"-"`
	User     User      `json:"-"`
	UserID   uuid.UUID
	Share    uint
}

// BeforeSave trims whitespace from all strings.
func (s *Source) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Note = strings.TrimSpace(s.Note)

	return nil
}

// BeforeCreate verifies that the ledger exists.
func (s *Source) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)
	return tx.First(&Ledger{}, s.LedgerID).Error
}

// TotalShares returns the sum of all member shares.
func (s Source) TotalShares() uint {
	var total uint
	for _, u := range s.Users {
		total += u.Share
	}

	return total
}
