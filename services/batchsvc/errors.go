package batchsvc

import "errors"

var (
	// ErrGeneration means the parent course for a batch could not be resolved.
	ErrGeneration = errors.New("batch identifier generation failed: course unresolvable")

	// ErrInvalidDateRange means endDate is not after startDate.
	ErrInvalidDateRange = errors.New("batch end date must be after start date")

	// ErrCapacityExceeded means an enrollment increment would push
	// currentStudents past maxStudents.
	ErrCapacityExceeded = errors.New("batch capacity exceeded")

	// ErrInvalidTransition means the requested status change is not allowed
	// by the batch lifecycle.
	ErrInvalidTransition = errors.New("invalid batch status transition")

	// ErrNotFound means the batch does not exist or is deleted.
	ErrNotFound = errors.New("batch not found")
)
