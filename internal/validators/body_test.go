package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	UserID string `json:"user_id" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
	Status string `json:"status" validate:"omitempty,oneof=pending approved"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(&sample{Status: "weird"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "validation failed", verr.Message)
	assert.Equal(t, "is required", verr.Details["user_id"])
	assert.Equal(t, "must be greater than 0", verr.Details["amount"])
	assert.Equal(t, "must be one of pending approved", verr.Details["status"])
}

func TestStructAcceptsValid(t *testing.T) {
	require.NoError(t, Struct(&sample{UserID: "u1", Amount: 5}))
}
