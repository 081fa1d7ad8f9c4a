package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers any absent request, user, wallet or category.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed means the request left pending before this call could
	// transition it, including when a concurrent processor won the commit.
	ErrAlreadyProcessed = errors.New("request already processed")

	// ErrInsufficientBalance occurs when a withdrawal exceeds the wallet balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount rejects non-positive or malformed monetary input.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrStoreUnavailable wraps transport and commit failures of the record store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

var (
	ErrRequestNotFound  = fmt.Errorf("request %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrWalletMissing    = fmt.Errorf("wallet %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// ErrWalletExists is returned when provisioning a second wallet for a user.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrWalletConflict reports a failed wallet version check during Commit.
	ErrWalletConflict = errors.New("wallet version conflict")

	// ErrWalletContended is returned once the engine runs out of commit attempts.
	ErrWalletContended = fmt.Errorf("wallet contended: %w", ErrStoreUnavailable)

	errDuplicateRequest = errors.New("duplicate request id")
)

// StoreError wraps a failure of the underlying store. It matches both
// ErrStoreUnavailable and the original cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
