// Package session models the interactive booking workflow as an explicit
// state machine. The session holds its progress as data and drives the
// reservation engine; it never touches seat ledgers itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/reservation"
)

type State int

const (
	Searching State = iota
	FlightChosen
	PassengerEntered
	SeatChosen
	Confirmed
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case FlightChosen:
		return "flight_chosen"
	case PassengerEntered:
		return "passenger_entered"
	case SeatChosen:
		return "seat_chosen"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for calls made out of workflow order.
var ErrInvalidTransition = errors.New("invalid session transition")

type Passenger struct {
	FirstName string
	LastName  string
	Phone     string
}

// Session is one interactive booking flow. There is no terminal state; after
// a confirmation (or at any point) the session loops back to searching.
type Session struct {
	catalog repository.FlightCatalog
	engine  reservation.ReservationUseCase

	state     State
	flight    *domain.Flight
	passenger Passenger
	seat      domain.SeatID
}

func New(catalog repository.FlightCatalog, engine reservation.ReservationUseCase) *Session {
	return &Session{catalog: catalog, engine: engine}
}

func (s *Session) State() State           { return s.state }
func (s *Session) Flight() *domain.Flight { return s.flight }
func (s *Session) Seat() domain.SeatID    { return s.seat }

// Search is available from any state and resets the flow back to searching.
func (s *Session) Search(ctx context.Context, origin, destination, date string) ([]*domain.Flight, error) {
	s.Abandon()
	day, err := domain.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return nil, err
	}
	return s.catalog.Search(ctx, origin, destination, day)
}

// ChooseFlight moves Searching -> FlightChosen; the flight must have
// capacity left.
func (s *Session) ChooseFlight(ctx context.Context, code string) error {
	if s.state != Searching {
		return fmt.Errorf("%w: choose flight from %s", ErrInvalidTransition, s.state)
	}
	flight, err := s.catalog.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if flight.Available() <= 0 {
		return domain.ErrNoCapacity
	}
	s.flight = flight
	s.state = FlightChosen
	return nil
}

// EnterPassenger moves FlightChosen -> PassengerEntered; first name and
// phone must be non-empty after trimming.
func (s *Session) EnterPassenger(p Passenger) error {
	if s.state != FlightChosen {
		return fmt.Errorf("%w: enter passenger from %s", ErrInvalidTransition, s.state)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.Phone) == "" {
		return domain.ErrInvalidPassenger
	}
	s.passenger = p
	s.state = PassengerEntered
	return nil
}

// ChooseSeat moves PassengerEntered -> SeatChosen; the seat must be
// currently available. The pick is re-validated at confirm time.
func (s *Session) ChooseSeat(ctx context.Context, seat domain.SeatID) error {
	if s.state != PassengerEntered {
		return fmt.Errorf("%w: choose seat from %s", ErrInvalidTransition, s.state)
	}
	available, err := s.engine.IsSeatAvailable(ctx, s.flight.Code, seat)
	if err != nil {
		return err
	}
	if !available {
		return domain.ErrSeatTaken
	}
	s.seat = seat
	s.state = SeatChosen
	return nil
}

// Confirm moves SeatChosen -> Confirmed by committing the booking through
// the engine. On ErrSeatTaken the session drops back to PassengerEntered so
// the caller can offer a fresh seat grid.
func (s *Session) Confirm(ctx context.Context) (*domain.Booking, error) {
	if s.state != SeatChosen {
		return nil, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, s.state)
	}
	booking, err := s.engine.CreateBooking(ctx, reservation.CreateBookingInput{
		FlightCode: s.flight.Code,
		FirstName:  s.passenger.FirstName,
		LastName:   s.passenger.LastName,
		Phone:      s.passenger.Phone,
		Seat:       string(s.seat),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSeatTaken) {
			s.seat = ""
			s.state = PassengerEntered
		}
		return nil, err
	}
	s.state = Confirmed
	return booking, nil
}

// Abandon returns to Searching from any state, clearing all progress.
func (s *Session) Abandon() {
	s.state = Searching
	s.flight = nil
	s.passenger = Passenger{}
	s.seat = ""
}
