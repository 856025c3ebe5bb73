package board

import (
	"errors"
	"fmt"
)

// Error kinds returned by board operations. Check them with errors.Is.
var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrTodoAtCapacity   = fmt.Errorf("todo: %w", ErrCapacityExceeded)
	ErrMemberAtCapacity = fmt.Errorf("member: %w", ErrCapacityExceeded)

	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrMemberHasNoTasks = errors.New("member has no tasks")
	ErrMemberNotFound   = errors.New("member not found")
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrInvalidLimit     = errors.New("limit must be at least 1")
)

func indexError(collection string, index, length int) error {
	return fmt.Errorf("%w: %s index %d (have %d)", ErrIndexOutOfRange, collection, index, length)
}
