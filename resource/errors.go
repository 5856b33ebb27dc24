package resource

import "errors"

var (
	// ErrMemoryBudgetExceeded is returned when an allocation does not fit
	// the budget even after evicting every pooled texture.
	ErrMemoryBudgetExceeded = errors.New("resource: memory budget exceeded")

	// ErrManagerClosed is returned when allocating from a released manager.
	ErrManagerClosed = errors.New("resource: manager released")

	// ErrAllocationFailed is returned when the backend could not create or
	// specify a resource.
	ErrAllocationFailed = errors.New("resource: allocation failed")

	// ErrInvalidSize is returned for non-positive dimensions.
	ErrInvalidSize = errors.New("resource: invalid size")
)
