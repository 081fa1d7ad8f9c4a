package intake

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/banksampah/banksampah/internal/ledger"
)

var (
	minMoney = decimal.NewFromInt(math.MinInt64)
	maxMoney = decimal.NewFromInt(math.MaxInt64)
)

// SubmissionRequest is the body of POST /submissions.
type SubmissionRequest struct {
	UserID        string          `json:"user_id" validate:"required"`
	CategoryID    string          `json:"category_id" validate:"required"`
	WeightInGrams json.RawMessage `json:"weight_in_grams"`
}

// WithdrawalRequest is the body of POST /withdrawals.
type WithdrawalRequest struct {
	UserID string          `json:"user_id" validate:"required"`
	Amount json.RawMessage `json:"amount"`
}

// Quantity coerces a JSON number or numeric string into a non-negative decimal.
// Missing, null and non-numeric values become zero.
func Quantity(raw json.RawMessage) decimal.Decimal {
	d, ok := number(raw)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Money reads a whole-unit amount from a JSON number or numeric string.
// Anything missing, fractional, non-numeric or outside int64 is
// ledger.ErrInvalidAmount. The sign is left to the caller.
func Money(raw json.RawMessage) (int64, error) {
	d, ok := number(raw)
	if !ok || !d.IsInteger() || d.LessThan(minMoney) || d.GreaterThan(maxMoney) {
		return 0, ledger.ErrInvalidAmount
	}
	return d.IntPart(), nil
}

func number(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}
	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
	} else {
		text = string(raw)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
