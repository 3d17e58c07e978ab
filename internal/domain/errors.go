package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds returned by the catalog and the reservation engine. Handlers
// map these to user-facing responses with errors.Is.
var (
	ErrInvalidDate      = errors.New("invalid date, use YYYY-MM-DD")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrNoCapacity       = errors.New("no seats available")
	ErrNoSeatSelected   = errors.New("no seat selected")
	ErrSeatTaken        = errors.New("seat already booked")
	ErrInvalidPassenger = errors.New("first name and phone are required")
	ErrBookingNotFound  = errors.New("booking not found")

	// ErrInconsistency signals a seat-ledger/registry mismatch. It should
	// never occur while the engine invariants hold and is surfaced, not
	// swallowed.
	ErrInconsistency = errors.New("seat ledger out of sync with booking registry")
)

// ParseDate parses an ISO calendar date, normalizing to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d.UTC(), nil
}
