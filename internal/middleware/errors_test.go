package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/logging"
	"github.com/banksampah/banksampah/internal/validators"
)

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ledger.ErrRequestNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("lookup: %w", ledger.ErrCategoryNotFound), http.StatusNotFound, "not_found"},
		{ledger.ErrAlreadyProcessed, http.StatusConflict, "already_processed"},
		{ledger.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
		{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{ledger.ErrWalletContended, http.StatusServiceUnavailable, "store_unavailable"},
		{&ledger.StoreError{Op: "get", Err: errors.New("dial tcp")}, http.StatusServiceUnavailable, "store_unavailable"},
		{&validators.Error{Message: "validation failed", Details: map[string]string{"user_id": "is required"}}, http.StatusBadRequest, "validation_failed"},
		{fiber.NewError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "http_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.code+"/"+tc.err.Error(), func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
			app.Use(RequestID())
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
			}
			if tc.code == "validation_failed" {
				assert.Equal(t, "is required", body.Details["user_id"])
			}
		})
	}
}
