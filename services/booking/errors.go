package booking

import "errors"

var (
	// ErrNoCapacity means every slot of the chosen session is taken.
	ErrNoCapacity = errors.New("no open slot left in this session")
	// ErrDuplicateBooking means the client already holds a slot in the same Monday-start week.
	ErrDuplicateBooking = errors.New("client already has an appointment this week")
	// ErrAlreadyReleased means the slot is no longer held by the client.
	ErrAlreadyReleased = errors.New("appointment already released")
)
