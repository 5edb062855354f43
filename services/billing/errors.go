package billing

import "errors"

var (
	// ErrDuplicateEnrollment means a non-cancelled invoice already exists for
	// the (student, batch) pair.
	ErrDuplicateEnrollment = errors.New("student already has an active invoice for this batch")

	// ErrAlreadyDecided means the payment was already verified or rejected
	// and a conflicting decision was requested.
	ErrAlreadyDecided = errors.New("payment already decided")

	// ErrMissingReason means a reject decision arrived without a reason.
	ErrMissingReason = errors.New("rejection reason is required")

	// ErrInvalidAmount means a payment claim carried a non-positive amount.
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")

	// ErrBatchNotOpen means the batch is not accepting enrollments (draft,
	// completed, cancelled or inactive).
	ErrBatchNotOpen = errors.New("batch is not open for enrollment")

	// ErrNotFound means the invoice or payment does not exist.
	ErrNotFound = errors.New("record not found")
)
