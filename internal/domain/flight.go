package domain

import (
	"fmt"
	"sync"
	"time"
)

// Flight is a scheduled route+date entity with a fixed-size seat inventory.
// The seat ledger maps seat ids to the booking occupying them; absence of a
// key means the seat is free. Only the reservation engine mutates the ledger.
type Flight struct {
	Code        string
	Origin      string
	Destination string
	DepartTime  string // local time of day, "HH:MM"
	ArriveTime  string
	Date        time.Time // calendar date, UTC midnight
	FareCents   int64
	Rows        int
	Cols        int

	mu    sync.RWMutex
	seats map[SeatID]*Booking
}

func NewFlight(code, origin, destination, depart, arrive string, date time.Time, fareCents int64) *Flight {
	return &Flight{
		Code:        code,
		Origin:      origin,
		Destination: destination,
		DepartTime:  depart,
		ArriveTime:  arrive,
		Date:        date.UTC().Truncate(24 * time.Hour),
		FareCents:   fareCents,
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		seats:       make(map[SeatID]*Booking),
	}
}

func (f *Flight) SeatTotal() int {
	return f.Rows * f.Cols
}

// Available is derived from the ledger, never cached.
func (f *Flight) Available() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.SeatTotal() - len(f.seats)
}

// ValidSeat reports whether the seat id falls inside this flight's layout.
func (f *Flight) ValidSeat(seat SeatID) bool {
	row, col := seat.Row(), seat.Col()
	return row >= 0 && row < f.Rows && col >= 1 && col <= f.Cols
}

// SeatAvailable reports whether the seat is free. An out-of-layout seat is
// reported as unavailable rather than as an error.
func (f *Flight) SeatAvailable(seat SeatID) bool {
	if !f.ValidSeat(seat) {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, taken := f.seats[seat]
	return !taken
}

// Booked returns the booking holding the seat, if any.
func (f *Flight) Booked(seat SeatID) (*Booking, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.seats[seat]
	return b, ok
}

// Assign writes a ledger entry. Called only by the reservation engine while
// it holds the flight's booking lock.
func (f *Flight) Assign(seat SeatID, b *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[seat] = b
}

// Unassign removes a ledger entry, returning the booking that held it.
func (f *Flight) Unassign(seat SeatID) (*Booking, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.seats[seat]
	if ok {
		delete(f.seats, seat)
	}
	return b, ok
}

// LedgerSize is the number of occupied seats.
func (f *Flight) LedgerSize() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.seats)
}

// SeatMap returns the full layout in row-major order with availability flags.
func (f *Flight) SeatMap() []SeatStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]SeatStatus, 0, f.SeatTotal())
	for r := 0; r < f.Rows; r++ {
		for c := 1; c <= f.Cols; c++ {
			seat := seatAt(r, c)
			_, taken := f.seats[seat]
			out = append(out, SeatStatus{Seat: string(seat), Available: !taken})
		}
	}
	return out
}

func (f *Flight) Route() string {
	return f.Origin + " -> " + f.Destination
}

// FlightSummary is the serializable view used by the API and the Redis cache.
type FlightSummary struct {
	Code           string `json:"code"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	DepartTime     string `json:"depart_time"`
	ArriveTime     string `json:"arrive_time"`
	FareCents      int64  `json:"fare_cents"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}

func (f *Flight) Summary() FlightSummary {
	return FlightSummary{
		Code:           f.Code,
		Origin:         f.Origin,
		Destination:    f.Destination,
		Date:           f.Date.Format(time.DateOnly),
		DepartTime:     f.DepartTime,
		ArriveTime:     f.ArriveTime,
		FareCents:      f.FareCents,
		TotalSeats:     f.SeatTotal(),
		AvailableSeats: f.Available(),
	}
}

// FormatFare renders a cent amount with two decimal places.
func FormatFare(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
