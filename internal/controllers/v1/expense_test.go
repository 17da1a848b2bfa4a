package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/splitbook/backend/internal/controllers/v1"
	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/models"
	"github.com/splitbook/backend/internal/money"
	"github.com/splitbook/backend/test"
)

func (suite *TestSuiteStandard) expenseEditable(f fixture, sum string, date time.Time) v1.ExpenseEditable {
	m, err := money.Default.Parse(sum)
	suite.Require().NoError(err)

	return v1.ExpenseEditable{
		LedgerID:   f.ledger.ID,
		Type:       models.TypeExpense,
		Sum:        m,
		Date:       date,
		SourceID:   f.source.ID,
		CategoryID: f.category.ID,
		UserID:     f.users[0].ID,
		Confirmed:  true,
	}
}

func (suite *TestSuiteStandard) createExpense(editable v1.ExpenseEditable) v1.Expense {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/expenses", editable)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	return *response.Data
}

func (suite *TestSuiteStandard) TestExpenseCreateDerivesDivision() {
	f := suite.createFixture()

	expense := suite.createExpense(suite.expenseEditable(f, "7.01", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))
	suite.Assert().Len(expense.Division, 4)

	total := money.Default.Zero()
	for _, item := range expense.Division {
		total = total.Add(item.Sum)
	}
	suite.Assert().True(total.IsZero(), "division should balance, but sums to %s", total)
}

func (suite *TestSuiteStandard) TestExpenseCreateUnbalancedDivision() {
	f := suite.createFixture()

	editable := suite.expenseEditable(f, "10.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC))
	sum, err := money.Default.Parse("9.00")
	suite.Require().NoError(err)
	editable.Division = []v1.DivisionItemEditable{
		{UserID: f.users[0].ID, Type: models.DivisionBenefit, Sum: sum},
	}

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/expenses", editable)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestExpenseGet() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "7.01", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/expenses/%s", expense.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(expense.ID, response.Data.ID)
	suite.Assert().Len(response.Data.Division, 4)
}

func (suite *TestSuiteStandard) TestExpenseListFilters() {
	f := suite.createFixture()
	suite.createExpense(suite.expenseEditable(f, "10.00", time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC)))

	rent := suite.expenseEditable(f, "500.00", time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC))
	rent.Note = "rent february"
	suite.createExpense(rent)

	tests := []struct {
		query string
		count int
	}{
		{fmt.Sprintf("ledger=%s", f.ledger.ID), 2},
		{"fromDate=2017-02-01", 1},
		{"untilDate=2017-02-01", 1},
		{"type=expense", 2},
		{"type=income", 0},
		{"note=rent*", 1},
		{"note=nomatch*", 0},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodGet, "/v1/expenses?"+tt.query, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.ExpenseListResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		suite.Assert().Len(response.Data, tt.count, "wrong number of expenses for query %q", tt.query)
	}
}

func (suite *TestSuiteStandard) TestExpenseListInvalidType() {
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/expenses?type=subscription", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestExpenseUpdate() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "10.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	editable := suite.expenseEditable(f, "30.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC))
	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/expenses/%s", expense.ID), editable)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("30.00", response.Data.Sum.String())
}

func (suite *TestSuiteStandard) TestExpenseDelete() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "10.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/expenses/%s", expense.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/expenses/%s", expense.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExpenseConvertRecurring() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "50.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	url := fmt.Sprintf("/v1/expenses/%s/recurring", expense.ID)
	recorder := test.Request(suite.T(), http.MethodPost, url, ledger.Period{Amount: 1, Unit: models.PeriodMonth})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.RecurringExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(f.ledger.ID, response.Data.LedgerID)
	suite.Assert().Equal(uint(1), response.Data.Period.Amount)

	// Converting again is rejected.
	recorder = test.Request(suite.T(), http.MethodPost, url, ledger.Period{Amount: 1, Unit: models.PeriodMonth})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestExpenseDeleteRecurringScoped() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "50.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("/v1/expenses/%s/recurring", expense.ID), ledger.Period{Amount: 1, Unit: models.PeriodMonth})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/expenses/%s?target=all", expense.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/expenses?ledger=%s", f.ledger.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Data)
}

func (suite *TestSuiteStandard) TestExpenseTemplatesHidden() {
	f := suite.createFixture()
	expense := suite.createExpense(suite.expenseEditable(f, "50.00", time.Date(2017, 1, 22, 0, 0, 0, 0, time.UTC)))

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("/v1/expenses/%s/recurring", expense.ID), ledger.Period{Amount: 1, Unit: models.PeriodMonth})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	// The template exists in the database but is not listed.
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/expenses?ledger=%s", f.ledger.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)
}
