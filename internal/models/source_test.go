package models_test

import (
	"github.com/splitbook/backend/internal/models"
)

func (suite *TestSuiteStandard) TestSourceTotalShares() {
	source := models.Source{
		Users: []models.SourceUser{
			{Share: 3},
			{Share: 1},
			{Share: 0},
		},
	}

	suite.Assert().Equal(uint(4), source.TotalShares())
	suite.Assert().Zero(models.Source{}.TotalShares())
}

func (suite *TestSuiteStandard) TestSourceNameUniquePerLedger() {
	ledger := suite.createTestLedger(models.Ledger{})
	other := suite.createTestLedger(models.Ledger{})

	_ = suite.createTestSource(models.Source{LedgerID: ledger.ID, Name: "Household account"})
	_ = suite.createTestSource(models.Source{LedgerID: other.ID, Name: "Household account"})

	err := models.DB.Create(&models.Source{LedgerID: ledger.ID, Name: "Household account"}).Error
	suite.Assert().ErrorIs(err, models.ErrSourceNameNotUnique)
}

func (suite *TestSuiteStandard) TestSourceCreatesMemberShares() {
	ledger := suite.createTestLedger(models.Ledger{})
	alex := suite.createTestUser(models.User{LedgerID: ledger.ID})
	sam := suite.createTestUser(models.User{LedgerID: ledger.ID})

	source := suite.createTestSource(models.Source{
		LedgerID: ledger.ID,
		Users: []models.SourceUser{
			{UserID: alex.ID, Share: 2},
			{UserID: sam.ID, Share: 1},
		},
	})

	var reloaded models.Source
	err := models.DB.Preload("Users").First(&reloaded, source.ID).Error
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.Users, 2)
	suite.Assert().Equal(uint(3), reloaded.TotalShares())
}
