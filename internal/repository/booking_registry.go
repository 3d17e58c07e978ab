package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type BookingRegistry interface {
	Append(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Remove(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]*domain.Booking, error)
}

// MemoryBookingRegistry keeps every active booking in creation order.
// Entries are appended on creation and removed only by cancellation.
type MemoryBookingRegistry struct {
	mu       sync.RWMutex
	bookings []*domain.Booking
	byID     map[string]*domain.Booking
}

func NewMemoryBookingRegistry() *MemoryBookingRegistry {
	return &MemoryBookingRegistry{byID: make(map[string]*domain.Booking)}
}

func (r *MemoryBookingRegistry) Append(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[b.ID]; dup {
		return fmt.Errorf("duplicate booking id %q", b.ID)
	}
	r.bookings = append(r.bookings, b)
	r.byID[b.ID] = b
	return nil
}

func (r *MemoryBookingRegistry) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrBookingNotFound, id)
	}
	return b, nil
}

// Remove is an atomic claim: of two concurrent removals of the same id
// exactly one receives the booking, the other ErrBookingNotFound.
func (r *MemoryBookingRegistry) Remove(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrBookingNotFound, id)
	}
	delete(r.byID, id)
	for i, cur := range r.bookings {
		if cur.ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			break
		}
	}
	return b, nil
}

func (r *MemoryBookingRegistry) List(ctx context.Context) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

var _ BookingRegistry = (*MemoryBookingRegistry)(nil)
