package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/google/uuid"
)

type ReservationUseCase interface {
	IsSeatAvailable(ctx context.Context, flightCode string, seat domain.SeatID) (bool, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]*domain.Booking, error)
}

// Cache is an optional collaborator guarding the commit window against
// double submits from other front-end instances and keeping the flight-list
// cache coherent with ledger mutations.
type Cache interface {
	AcquireSeatLock(ctx context.Context, flightCode, seat string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightCode, seat string) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ReservationService is the sole writer of flight seat ledgers and the
// booking registry. Creation and cancellation on the same flight are
// serialized by a per-flight mutex, which makes the check-then-commit
// sequence atomic; no ordering is imposed across different flights.
type ReservationService struct {
	catalog            repository.FlightCatalog
	registry           repository.BookingRegistry
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	seatLockTTL        time.Duration

	mu          sync.Mutex
	flightLocks map[string]*sync.Mutex
}

type CreateBookingInput struct {
	FlightCode string `json:"flight_code"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Seat       string `json:"seat"`
}

type ReservationServiceOption func(*ReservationService)

func WithCache(cache Cache, seatLockTTL time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.cache = cache
		s.seatLockTTL = seatLockTTL
	}
}

func WithProducer(producer Producer, bookingTopic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func NewReservationService(catalog repository.FlightCatalog, registry repository.BookingRegistry, opts ...ReservationServiceOption) *ReservationService {
	service := &ReservationService{
		catalog:     catalog,
		registry:    registry,
		flightLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *ReservationService) flightLock(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.flightLocks[code]
	if !ok {
		lock = &sync.Mutex{}
		s.flightLocks[code] = lock
	}
	return lock
}

// IsSeatAvailable reports whether the seat is currently free on the flight.
// No side effects; out-of-layout seats read as unavailable.
func (s *ReservationService) IsSeatAvailable(ctx context.Context, flightCode string, seat domain.SeatID) (bool, error) {
	flight, err := s.catalog.GetByCode(ctx, flightCode)
	if err != nil {
		return false, err
	}
	return flight.SeatAvailable(seat), nil
}

// CreateBooking validates preconditions in order (capacity, seat selected,
// seat available, passenger fields; first failure wins) and commits the
// seat-ledger write and the registry append as one transaction under the
// flight's lock. Availability is re-checked at commit time, so a stale seat
// pick loses cleanly with ErrSeatTaken.
func (s *ReservationService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	flight, err := s.catalog.GetByCode(ctx, input.FlightCode)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return nil, fmt.Errorf("%w: unknown flight %q", domain.ErrNoCapacity, input.FlightCode)
		}
		return nil, err
	}
	seat := domain.SeatID(strings.TrimSpace(input.Seat))

	lock := s.flightLock(flight.Code)
	lock.Lock()
	defer lock.Unlock()

	if flight.Available() <= 0 {
		return nil, domain.ErrNoCapacity
	}
	if seat == "" {
		return nil, domain.ErrNoSeatSelected
	}
	if !flight.SeatAvailable(seat) {
		return nil, domain.ErrSeatTaken
	}
	firstName := strings.TrimSpace(input.FirstName)
	phone := strings.TrimSpace(input.Phone)
	if firstName == "" || phone == "" {
		return nil, domain.ErrInvalidPassenger
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatLock(ctx, flight.Code, string(seat), s.seatLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSeatTaken
		}
		locked = true
	}

	id, err := s.newBookingID(ctx)
	if err != nil {
		if locked {
			_ = s.cache.ReleaseSeatLock(ctx, flight.Code, string(seat))
		}
		return nil, err
	}

	booking := &domain.Booking{
		ID:        id,
		Flight:    flight,
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     phone,
		Seat:      seat,
		CreatedAt: time.Now(),
	}

	flight.Assign(seat, booking)
	if err := s.registry.Append(ctx, booking); err != nil {
		flight.Unassign(seat)
		if locked {
			_ = s.cache.ReleaseSeatLock(ctx, flight.Code, string(seat))
		}
		return nil, err
	}

	if s.cache != nil {
		// Ledger entry is now the unit of truth, the commit-window lock has
		// done its job. Stale cached availability must not survive the write.
		_ = s.cache.ReleaseSeatLock(ctx, flight.Code, string(seat))
		_ = s.cache.InvalidateFlights(ctx)
	}
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// CancelBooking removes the booking from the registry and frees its seat.
// A second cancellation of the same id fails with ErrBookingNotFound.
func (s *ReservationService) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.registry.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	flight := booking.Flight

	lock := s.flightLock(flight.Code)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock: a concurrent cancel may have won.
	if _, err := s.registry.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	held, ok := flight.Booked(booking.Seat)
	if !ok || held.ID != booking.ID {
		return nil, fmt.Errorf("%w: booking %s seat %s", domain.ErrInconsistency, booking.ID, booking.Seat)
	}

	removed, err := s.registry.Remove(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	flight.Unassign(booking.Seat)

	if s.cache != nil {
		_ = s.cache.ReleaseSeatLock(ctx, flight.Code, string(booking.Seat))
		_ = s.cache.InvalidateFlights(ctx)
	}
	s.publish(ctx, kafka.EventBookingCancelled, removed)
	return removed, nil
}

func (s *ReservationService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.registry.GetByID(ctx, bookingID)
}

// ListBookings returns the current registry snapshot in creation order.
func (s *ReservationService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.registry.List(ctx)
}

// newBookingID derives an 8-character uppercase id from a random UUID,
// retrying on the off chance of a collision with a live booking.
func (s *ReservationService) newBookingID(ctx context.Context) (string, error) {
	for {
		id := strings.ToUpper(uuid.NewString()[:8])
		if _, err := s.registry.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				return id, nil
			}
			return "", err
		}
	}
}

func (s *ReservationService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		FlightCode:  booking.Flight.Code,
		Origin:      booking.Flight.Origin,
		Destination: booking.Flight.Destination,
		Date:        booking.Flight.Date.Format(time.DateOnly),
		DepartTime:  booking.Flight.DepartTime,
		ArriveTime:  booking.Flight.ArriveTime,
		Seat:        string(booking.Seat),
		Passenger:   booking.FullName(),
		Phone:       booking.Phone,
		FareCents:   booking.Flight.FareCents,
		CreatedAt:   booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		fmt.Printf("WARNING: failed to publish %s event for booking %s: %v\n", eventType, booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			fmt.Printf("WARNING: failed to publish %s notification for booking %s: %v\n", eventType, booking.ID, err)
		}
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
