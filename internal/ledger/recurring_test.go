package ledger_test

import (
	"time"

	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/types"
)

func monthly() ledger.Period {
	return ledger.Period{Amount: 1, Unit: models.PeriodMonth}
}

func (suite *TestSuiteStandard) TestConvertGeneratesOccurrences() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))

	recurrence, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)
	suite.Assert().True(day(2017, time.February, 22).Equal(recurrence.NextMissing))

	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)

	occurrence := collection.Expenses[0]
	suite.Assert().True(day(2017, time.March, 22).Equal(occurrence.Date), "occurrence is dated %s", occurrence.Date)
	suite.Assert().False(occurrence.Confirmed)
	suite.Assert().False(occurrence.Template)
	suite.Require().NotNil(occurrence.RecurringExpenseID)
	suite.Assert().Equal(recurrence.ID, *occurrence.RecurringExpenseID)
	suite.Assert().True(occurrence.Sum.Equal(expense.Sum))
	suite.Assert().Len(occurrence.Division, len(expense.Division))

	// The February occurrence was materialized on the way to March.
	collection, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)
	suite.Assert().True(day(2017, time.February, 22).Equal(collection.Expenses[0].Date))
}

func (suite *TestSuiteStandard) TestBackfillIsIdempotent() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
		suite.Require().NoError(err)
	}

	var count int64
	err = models.DB.Model(&models.Expense{}).
		Where("ledger_id = ? AND template = ?", f.ledger.ID, false).
		Count(&count).Error
	suite.Require().NoError(err)

	// The original booking plus one occurrence each for February and March.
	suite.Assert().Equal(int64(3), count)
}

func (suite *TestSuiteStandard) TestConvertAlreadyRecurring() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	_, err = svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Assert().ErrorIs(err, ledger.ErrAlreadyRecurring)
}

func (suite *TestSuiteStandard) TestConvertInvalidPeriod() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))

	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, ledger.Period{Amount: 0, Unit: models.PeriodMonth})
	suite.Assert().ErrorIs(err, ledger.ErrPeriod)

	_, err = svc.ConvertToRecurring(f.ledger.ID, expense.ID, ledger.Period{Amount: 1, Unit: models.PeriodUnit("fortnight")})
	suite.Assert().ErrorIs(err, ledger.ErrPeriod)
}

func (suite *TestSuiteStandard) TestDeleteSingleKeepsRecurrence() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)

	err = svc.DeleteExpense(f.ledger.ID, collection.Expenses[0].ID, ledger.TargetSingle)
	suite.Require().NoError(err)

	// February stays empty, the deleted occurrence is not regenerated.
	collection, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Assert().Empty(collection.Expenses)

	// The recurrence keeps generating later occurrences.
	collection, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Assert().Len(collection.Expenses, 1)
}

func (suite *TestSuiteStandard) TestDeleteAfterTerminates() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	recurrence, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)

	err = svc.DeleteExpense(f.ledger.ID, collection.Expenses[0].ID, ledger.TargetAfter)
	suite.Require().NoError(err)

	// Earlier occurrences stay.
	collection, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Assert().Len(collection.Expenses, 1)

	// The pivot and everything after it is gone for good.
	for _, month := range []types.Month{types.NewMonth(2017, time.March), types.NewMonth(2017, time.June)} {
		collection, err = svc.Month(f.ledger.ID, month)
		suite.Require().NoError(err)
		suite.Assert().Empty(collection.Expenses, "month %s should have no occurrences", month)
	}

	var terminated models.RecurringExpense
	suite.Require().NoError(models.DB.First(&terminated, recurrence.ID).Error)
	suite.Require().NotNil(terminated.OccursUntil)
	suite.Assert().True(day(2017, time.March, 22).Equal(*terminated.OccursUntil))
}

func (suite *TestSuiteStandard) TestDeleteAllRemovesEverything() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	recurrence, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)

	err = svc.DeleteExpense(f.ledger.ID, collection.Expenses[0].ID, ledger.TargetAll)
	suite.Require().NoError(err)

	// The original booking, the template and every occurrence are gone.
	var count int64
	err = models.DB.Model(&models.Expense{}).Where("ledger_id = ?", f.ledger.ID).Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Zero(count)

	err = models.DB.First(&models.RecurringExpense{}, recurrence.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteScopedOnPlainExpense() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))

	err := svc.DeleteExpense(f.ledger.ID, expense.ID, ledger.TargetAll)
	suite.Assert().ErrorIs(err, ledger.ErrNotRecurring)
}

func (suite *TestSuiteStandard) TestUpdateAllReachesTemplate() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	input := f.input(models.TypeExpense, amount(suite.T(), "75.00"), day(2017, time.January, 22))
	_, err = svc.UpdateExpense(f.ledger.ID, expense.ID, ledger.TargetAll, input)
	suite.Require().NoError(err)

	// Occurrences generated after the update use the new sum.
	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(collection.Expenses, 1)
	suite.Assert().Equal("75.00", collection.Expenses[0].Sum.String())
	suite.Assert().True(day(2017, time.February, 22).Equal(collection.Expenses[0].Date))
}

func (suite *TestSuiteStandard) TestUpdateAfterKeepsEarlierOccurrences() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	march, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(march.Expenses, 1)

	input := f.input(models.TypeExpense, amount(suite.T(), "75.00"), day(2017, time.March, 22))
	input.Confirmed = false
	_, err = svc.UpdateExpense(f.ledger.ID, march.Expenses[0].ID, ledger.TargetAfter, input)
	suite.Require().NoError(err)

	february, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(february.Expenses, 1)
	suite.Assert().Equal("50.00", february.Expenses[0].Sum.String())

	march, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(march.Expenses, 1)
	suite.Assert().Equal("75.00", march.Expenses[0].Sum.String())
	suite.Assert().True(day(2017, time.March, 22).Equal(march.Expenses[0].Date))
}

func (suite *TestSuiteStandard) TestUpdateAfterPivotsOnStoredDate() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	_, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	march, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(march.Expenses, 1)

	february, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(february.Expenses, 1)

	// The input carries a date two months past the referenced occurrence.
	// The pivot is the occurrence's stored date, so March is affected.
	input := f.input(models.TypeExpense, amount(suite.T(), "75.00"), day(2017, time.April, 10))
	updated, err := svc.UpdateExpense(f.ledger.ID, february.Expenses[0].ID, ledger.TargetAfter, input)
	suite.Require().NoError(err)
	suite.Assert().True(day(2017, time.February, 22).Equal(updated.Date), "occurrence moved to %s", updated.Date)

	march, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Require().Len(march.Expenses, 1)
	suite.Assert().Equal("75.00", march.Expenses[0].Sum.String())

	february, err = svc.Month(f.ledger.ID, types.NewMonth(2017, time.February))
	suite.Require().NoError(err)
	suite.Require().Len(february.Expenses, 1)
	suite.Assert().Equal("75.00", february.Expenses[0].Sum.String())
}

func (suite *TestSuiteStandard) TestDeleteTemplateRequiresScope() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	recurrence, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	err = svc.DeleteExpense(f.ledger.ID, recurrence.TemplateExpenseID, ledger.TargetSingle)
	suite.Assert().ErrorIs(err, ledger.ErrTemplateScope)

	// The backfill still finds the template.
	collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
	suite.Require().NoError(err)
	suite.Assert().Len(collection.Expenses, 1)
}

func (suite *TestSuiteStandard) TestBackfillMalformedPeriod() {
	f := suite.createFixture(1, 1)
	svc := ledger.NewService(models.DB)

	expense := suite.createTestExpense(f, f.input(models.TypeExpense, amount(suite.T(), "50.00"), day(2017, time.January, 22)))
	recurrence, err := svc.ConvertToRecurring(f.ledger.ID, expense.ID, monthly())
	suite.Require().NoError(err)

	// A unit the API rejects can only end up in the database from the
	// outside, but it must not hang the backfill or flood the ledger.
	err = models.DB.Model(&models.RecurringExpense{}).
		Where("id = ?", recurrence.ID).
		Update("period_unit", "fortnight").Error
	suite.Require().NoError(err)

	for i := 0; i < 2; i++ {
		collection, err := svc.Month(f.ledger.ID, types.NewMonth(2017, time.March))
		suite.Require().NoError(err)
		suite.Assert().Empty(collection.Expenses)
	}
}
