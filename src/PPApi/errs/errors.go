package errs

import "errors"

// Error kinds shared across components. Handlers map these onto HTTP
// status codes in one place; components wrap them with %w and context.
var (
	ErrValidation      = errors.New("invalid request")
	ErrPaymentRequired = errors.New("payment required")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrPaymentNotFound = errors.New("payment not found in transaction")
	ErrProvider        = errors.New("provider failure")
)
