package domain

import (
	"fmt"
	"strconv"
)

// SeatID identifies a seat as a row letter followed by a column number,
// e.g. "A1" through "F6" on the standard 6x6 layout.
type SeatID string

const (
	DefaultRows = 6
	DefaultCols = 6
)

// ParseSeatID validates the format of a seat identifier. Range checks
// against a concrete layout are done by Flight.ValidSeat.
func ParseSeatID(s string) (SeatID, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("malformed seat id %q", s)
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return "", fmt.Errorf("malformed seat id %q: row must be an uppercase letter", s)
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 {
		return "", fmt.Errorf("malformed seat id %q: column must be a positive number", s)
	}
	return SeatID(s), nil
}

// Row returns the zero-based row index, -1 for a malformed id.
func (s SeatID) Row() int {
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return -1
	}
	return int(s[0] - 'A')
}

// Col returns the one-based column number, -1 for a malformed id.
func (s SeatID) Col() int {
	if len(s) < 2 {
		return -1
	}
	col, err := strconv.Atoi(string(s[1:]))
	if err != nil {
		return -1
	}
	return col
}

func seatAt(row, col int) SeatID {
	return SeatID(fmt.Sprintf("%c%d", 'A'+row, col))
}

// SeatStatus is the per-seat entry of a flight's seat map view.
type SeatStatus struct {
	Seat      string `json:"seat"`
	Available bool   `json:"available"`
}
