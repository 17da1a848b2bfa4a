package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/splitbook/backend/internal/controllers/v1"
	"github.com/splitbook/backend/test"
)

func (suite *TestSuiteStandard) TestLedgerCRUD() {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/ledgers", v1.LedgerEditable{Name: "Flat 7", Currency: "€"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var created v1.LedgerResponse
	test.DecodeResponse(suite.T(), &recorder, &created)
	suite.Require().NotNil(created.Data)
	suite.Assert().Equal("Flat 7", created.Data.Name)

	url := fmt.Sprintf("/v1/ledgers/%s", created.Data.ID)

	recorder = test.Request(suite.T(), http.MethodGet, url, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPatch, url, v1.LedgerEditable{Name: "Flat 7", Note: "We moved", Currency: "€"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated v1.LedgerResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Require().NotNil(updated.Data)
	suite.Assert().Equal("We moved", updated.Data.Note)

	recorder = test.Request(suite.T(), http.MethodDelete, url, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, url, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestLedgerList() {
	suite.createFixture()
	suite.createFixture()

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/ledgers", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.LedgerListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestLedgerDuplicateName() {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/ledgers", v1.LedgerEditable{Name: "Twice"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/ledgers", v1.LedgerEditable{Name: "Twice"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLedgerInvalidID() {
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/ledgers/not-a-uuid", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLedgerInvalidBody() {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/ledgers", `{ "name": `)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
