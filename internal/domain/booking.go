package domain

import (
	"strings"
	"time"
)

// Booking binds one passenger to one seat on one flight. Bookings are
// immutable after creation; the only permitted state change is removal
// through cancellation.
type Booking struct {
	ID        string
	Flight    *Flight // non-owning back-reference
	FirstName string
	LastName  string
	Phone     string
	Seat      SeatID
	CreatedAt time.Time
}

func (b *Booking) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}
