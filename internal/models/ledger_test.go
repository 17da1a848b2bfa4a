package models_test

import (
	"github.com/splitbook/backend/internal/models"
)

func (suite *TestSuiteStandard) TestLedgerTrimWhitespace() {
	ledger := suite.createTestLedger(models.Ledger{
		Name:     " Flat share\t",
		Note:     " Shared expenses of the flat ",
		Currency: " € ",
	})

	suite.Assert().Equal("Flat share", ledger.Name)
	suite.Assert().Equal("Shared expenses of the flat", ledger.Note)
	suite.Assert().Equal("€", ledger.Currency)
}

func (suite *TestSuiteStandard) TestLedgerNameUnique() {
	_ = suite.createTestLedger(models.Ledger{Name: "Unique Ledger Name"})

	err := models.DB.Create(&models.Ledger{Name: "Unique Ledger Name"}).Error
	suite.Assert().ErrorIs(err, models.ErrLedgerNameNotUnique)
}

func (suite *TestSuiteStandard) TestLedgerNotFoundMessage() {
	err := models.DB.First(&models.Ledger{}, "name = ?", "does not exist").Error

	suite.Require().NotNil(err)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
	suite.Assert().Equal("there is no ledger matching your query", err.Error())
}
