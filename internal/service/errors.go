package service

import "errors"

// Sentinel errors surfaced at the service boundary. Controllers map these to
// HTTP statuses; everything else is treated as an internal failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrPaymentRequired  = errors.New("payment required")
	ErrDeadlineExceeded = errors.New("submission deadline exceeded")
)
