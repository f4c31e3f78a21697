package events

import "errors"

var (
	// ErrBusClosed is returned when attempting to publish to a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrInvalidPayload is returned when an event's payload does not match
	// its type.
	ErrInvalidPayload = errors.New("invalid event payload")
)
