package v1

import (
	"errors"
	"net/http"

	"github.com/splitbook/backend/internal/ledger"
	"github.com/splitbook/backend/internal/models"
)

// status maps an error to the HTTP status of the response.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, ledger.ErrLedgerScope) {
		return http.StatusForbidden
	}

	return http.StatusBadRequest
}
