/*
errors.go - Centralized error types for the bookkeeping core

PURPOSE:
  All sentinel errors in one place. The books package wraps these with
  context; the API layer maps them to HTTP status codes with errors.Is.

ERROR CATEGORIES:
  1. Validation errors - Rejected input, prior state untouched
  2. Lookup errors - Referenced record does not exist

Every failure here is per-operation and recoverable by retrying the user
action; nothing is fatal to the process.
*/
package ledger

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned when an amount is non-numeric, zero, or
	// negative at entry or edit time.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrEmptyName is returned when a customer or supplier name is blank.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrEmptyNumber is returned when an invoice number is blank.
	ErrEmptyNumber = errors.New("invoice number must not be empty")

	// ErrUnknownCustomer is returned when a debt references a customer that
	// does not exist.
	ErrUnknownCustomer = errors.New("customer not found")

	// ErrUnknownSupplier is returned when an invoice or payment references a
	// supplier that does not exist.
	ErrUnknownSupplier = errors.New("supplier not found")

	// ErrRecordNotFound is returned when editing or deleting a record that
	// does not exist.
	ErrRecordNotFound = errors.New("record not found")
)

// IsValidation reports whether the error is rejected user input rather than
// a missing record or an infrastructure failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyNumber)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownCustomer) ||
		errors.Is(err, ErrUnknownSupplier) ||
		errors.Is(err, ErrRecordNotFound)
}
