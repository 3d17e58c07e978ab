package reservation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatLock(ctx context.Context, flightCode, seat string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, flightCode, seat, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSeatLock(ctx context.Context, flightCode, seat string) error {
	args := m.Called(ctx, flightCode, seat)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func testFlight(code string) *domain.Flight {
	date, _ := domain.ParseDate("2026-08-31")
	return domain.NewFlight(code, "BKK", "DEL", "08:00", "10:30", date, 350000)
}

func newTestEngine(t *testing.T, flights []*domain.Flight, opts ...ReservationServiceOption) (*ReservationService, *repository.MemoryBookingRegistry) {
	t.Helper()
	catalog, err := repository.NewMemoryFlightCatalog(flights)
	require.NoError(t, err)
	registry := repository.NewMemoryBookingRegistry()
	return NewReservationService(catalog, registry, opts...), registry
}

func validInput(seat string) CreateBookingInput {
	return CreateBookingInput{
		FlightCode: "QP101",
		FirstName:  "A",
		LastName:   "B",
		Phone:      "123",
		Seat:       seat,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	flight := testFlight("QP101")
	svc, registry := newTestEngine(t, []*domain.Flight{flight})

	booking, err := svc.CreateBooking(context.Background(), validInput("A1"))

	require.NoError(t, err)
	assert.Len(t, booking.ID, 8)
	assert.Equal(t, domain.SeatID("A1"), booking.Seat)
	assert.Equal(t, "A B", booking.FullName())
	assert.Same(t, flight, booking.Flight)
	assert.Equal(t, 35, flight.Available())

	held, ok := flight.Booked("A1")
	require.True(t, ok)
	assert.Same(t, booking, held)

	listed, err := registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Same(t, booking, listed[0])
}

func TestCreateBooking_SeatTaken_NoPartialWrite(t *testing.T) {
	flight := testFlight("QP101")
	svc, registry := newTestEngine(t, []*domain.Flight{flight})

	first, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)

	input := validInput("A1")
	input.FirstName = "C"
	input.Phone = "456"
	_, err = svc.CreateBooking(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrSeatTaken)
	assert.Equal(t, 35, flight.Available())
	held, _ := flight.Booked("A1")
	assert.Same(t, first, held)
	listed, _ := registry.List(context.Background())
	assert.Len(t, listed, 1)
}

func TestCreateBooking_NoSeatSelected(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	_, err := svc.CreateBooking(context.Background(), validInput("   "))

	assert.ErrorIs(t, err, domain.ErrNoSeatSelected)
}

func TestCreateBooking_InvalidPassenger(t *testing.T) {
	flight := testFlight("QP101")
	svc, _ := newTestEngine(t, []*domain.Flight{flight})

	input := validInput("A1")
	input.FirstName = "   "
	_, err := svc.CreateBooking(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidPassenger)

	input = validInput("A1")
	input.Phone = ""
	_, err = svc.CreateBooking(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidPassenger)

	assert.Equal(t, 36, flight.Available())
}

func TestCreateBooking_PreconditionOrder(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	// Both the seat and the passenger are missing; the seat check comes first.
	input := CreateBookingInput{FlightCode: "QP101"}
	_, err := svc.CreateBooking(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrNoSeatSelected)
}

func TestCreateBooking_UnknownFlight(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	input := validInput("A1")
	input.FlightCode = "XX999"
	_, err := svc.CreateBooking(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrNoCapacity)
}

func TestCreateBooking_OutOfLayoutSeat(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	for _, seat := range []string{"G1", "A7", "Z9", "A0", "1A"} {
		_, err := svc.CreateBooking(context.Background(), validInput(seat))
		assert.ErrorIs(t, err, domain.ErrSeatTaken, "seat %q", seat)
	}
}

func TestCreateBooking_FullFlight(t *testing.T) {
	flight := testFlight("QP101")
	svc, _ := newTestEngine(t, []*domain.Flight{flight})

	for r := 0; r < flight.Rows; r++ {
		for c := 1; c <= flight.Cols; c++ {
			input := validInput(fmt.Sprintf("%c%d", 'A'+r, c))
			_, err := svc.CreateBooking(context.Background(), input)
			require.NoError(t, err)
		}
	}
	require.Equal(t, 0, flight.Available())

	_, err := svc.CreateBooking(context.Background(), validInput("A1"))
	assert.ErrorIs(t, err, domain.ErrNoCapacity)
}

func TestCancelBooking_RestoresAvailability(t *testing.T) {
	flight := testFlight("QP101")
	svc, registry := newTestEngine(t, []*domain.Flight{flight})

	booking, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)
	require.Equal(t, 35, flight.Available())

	cancelled, err := svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Same(t, booking, cancelled)
	assert.Equal(t, 36, flight.Available())

	listed, _ := registry.List(context.Background())
	assert.Empty(t, listed)

	// The seat can be booked again after cancellation.
	rebooked, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, rebooked.ID)
}

func TestCancelBooking_Twice(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	booking, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestCancelBooking_Unknown(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	_, err := svc.CancelBooking(context.Background(), "NOPE1234")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestLedgerRegistryBijection(t *testing.T) {
	qp101 := testFlight("QP101")
	qp102 := testFlight("QP102")
	svc, registry := newTestEngine(t, []*domain.Flight{qp101, qp102})

	seats := []string{"A1", "B2", "C3"}
	for _, seat := range seats {
		_, err := svc.CreateBooking(context.Background(), validInput(seat))
		require.NoError(t, err)
	}
	input := validInput("A1")
	input.FlightCode = "QP102"
	_, err := svc.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	listed, err := registry.List(context.Background())
	require.NoError(t, err)
	perFlight := map[string]int{}
	for _, b := range listed {
		perFlight[b.Flight.Code]++
		held, ok := b.Flight.Booked(b.Seat)
		require.True(t, ok, "ledger entry missing for booking %s", b.ID)
		assert.Same(t, b, held)
		assert.Equal(t, b.Seat, held.Seat)
	}
	assert.Equal(t, qp101.LedgerSize(), perFlight["QP101"])
	assert.Equal(t, qp102.LedgerSize(), perFlight["QP102"])
}

func TestListBookings_CreationOrder(t *testing.T) {
	svc, _ := newTestEngine(t, []*domain.Flight{testFlight("QP101")})

	var ids []string
	for _, seat := range []string{"A1", "B1", "C1"} {
		b, err := svc.CreateBooking(context.Background(), validInput(seat))
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	listed, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, b := range listed {
		assert.Equal(t, ids[i], b.ID)
	}
}

func TestIsSeatAvailable(t *testing.T) {
	flight := testFlight("QP101")
	svc, _ := newTestEngine(t, []*domain.Flight{flight})

	free, err := svc.IsSeatAvailable(context.Background(), "QP101", "A1")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)

	free, err = svc.IsSeatAvailable(context.Background(), "QP101", "A1")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.IsSeatAvailable(context.Background(), "QP101", "Z9")
	require.NoError(t, err)
	assert.False(t, free)

	_, err = svc.IsSeatAvailable(context.Background(), "XX999", "A1")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestCreateBooking_ConcurrentSameSeat(t *testing.T) {
	flight := testFlight("QP101")
	svc, registry := newTestEngine(t, []*domain.Flight{flight})

	const attempts = 30
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := validInput("A1")
			input.Phone = fmt.Sprintf("phone-%d", i)
			_, errs[i] = svc.CreateBooking(context.Background(), input)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domain.ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, won, "exactly one booking per (flight, seat)")
	assert.Equal(t, 1, flight.LedgerSize())
	listed, _ := registry.List(context.Background())
	assert.Len(t, listed, 1)
}

func TestCreateBooking_SeatLockDenied(t *testing.T) {
	flight := testFlight("QP101")
	mockCache := &MockCache{}
	mockCache.On("AcquireSeatLock", mock.Anything, "QP101", "A1", 30*time.Second).Return(false, nil)

	svc, registry := newTestEngine(t, []*domain.Flight{flight}, WithCache(mockCache, 30*time.Second))

	_, err := svc.CreateBooking(context.Background(), validInput("A1"))

	assert.ErrorIs(t, err, domain.ErrSeatTaken)
	assert.Equal(t, 36, flight.Available())
	listed, _ := registry.List(context.Background())
	assert.Empty(t, listed)
	mockCache.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestCreateBooking_SeatLockReleasedAfterCommit(t *testing.T) {
	flight := testFlight("QP101")
	mockCache := &MockCache{}
	mockCache.On("AcquireSeatLock", mock.Anything, "QP101", "A1", 30*time.Second).Return(true, nil)
	mockCache.On("ReleaseSeatLock", mock.Anything, "QP101", "A1").Return(nil)
	mockCache.On("InvalidateFlights", mock.Anything).Return(nil)

	svc, _ := newTestEngine(t, []*domain.Flight{flight}, WithCache(mockCache, 30*time.Second))

	_, err := svc.CreateBooking(context.Background(), validInput("A1"))

	require.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestCreateBooking_PublishesEvents(t *testing.T) {
	flight := testFlight("QP101")
	mockProducer := &MockProducer{}
	mockProducer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(nil)
	mockProducer.On("Publish", mock.Anything, "booking-notifications", mock.Anything, mock.Anything).Return(nil)

	svc, _ := newTestEngine(t, []*domain.Flight{flight},
		WithProducer(mockProducer, "booking-events"),
		WithNotificationsTopic("booking-notifications"))

	booking, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	mockProducer.AssertNumberOfCalls(t, "Publish", 4)
}

func TestCancelBooking_InvalidatesFlightsCache(t *testing.T) {
	flight := testFlight("QP101")
	mockCache := &MockCache{}
	mockCache.On("AcquireSeatLock", mock.Anything, "QP101", "A1", 30*time.Second).Return(true, nil)
	mockCache.On("ReleaseSeatLock", mock.Anything, "QP101", "A1").Return(nil)
	mockCache.On("InvalidateFlights", mock.Anything).Return(nil)

	svc, _ := newTestEngine(t, []*domain.Flight{flight}, WithCache(mockCache, 30*time.Second))

	booking, err := svc.CreateBooking(context.Background(), validInput("A1"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	mockCache.AssertNumberOfCalls(t, "InvalidateFlights", 2)
}
