package scheduleRepo

import "errors"

var (
	// ErrNotFound means the schedule (or the slot inside it) no longer exists.
	ErrNotFound = errors.New("schedule not found")
	// ErrConflict means a conditional write lost: the slot changed since it was read,
	// or a schedule already exists for that location and date.
	ErrConflict = errors.New("schedule conflict")
)
