package models_test

import (
	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserNameUniquePerLedger() {
	ledger := suite.createTestLedger(models.Ledger{})
	other := suite.createTestLedger(models.Ledger{})

	_ = suite.createTestUser(models.User{LedgerID: ledger.ID, Name: "Alex"})

	// The same name is fine in another ledger.
	_ = suite.createTestUser(models.User{LedgerID: other.ID, Name: "Alex"})

	err := models.DB.Create(&models.User{LedgerID: ledger.ID, Name: "Alex"}).Error
	suite.Assert().ErrorIs(err, models.ErrUserNameNotUnique)
}

func (suite *TestSuiteStandard) TestUserRequiresLedger() {
	err := models.DB.Create(&models.User{LedgerID: uuid.New(), Name: "Alex"}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCategoryNameUniquePerLedger() {
	ledger := suite.createTestLedger(models.Ledger{})

	_ = suite.createTestCategory(models.Category{LedgerID: ledger.ID, Name: "Groceries"})

	err := models.DB.Create(&models.Category{LedgerID: ledger.ID, Name: "Groceries"}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestCategoryRequiresLedger() {
	err := models.DB.Create(&models.Category{LedgerID: uuid.New(), Name: "Groceries"}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
