package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/validators"
)

type errorBody struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	var ve *validators.Error
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &fe):
		return fe.Code, "http_error"
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		return http.StatusConflict, "already_processed"
	case errors.Is(err, ledger.ErrWalletExists):
		return http.StatusConflict, "wallet_exists"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "insufficient_balance"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func statusFor(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorHandler renders domain errors as JSON with a matching status code.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := classify(err)
		body := errorBody{Error: err.Error(), Code: code, RequestID: RequestIDFrom(c)}

		var ve *validators.Error
		if errors.As(err, &ve) {
			body.Details = ve.Details
		}
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			body.Error = "internal server error"
		}
		if status == http.StatusServiceUnavailable {
			body.Error = ledger.ErrStoreUnavailable.Error()
		}
		return c.Status(status).JSON(body)
	}
}
