package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type FlightCatalog interface {
	List(ctx context.Context) ([]*domain.Flight, error)
	GetByCode(ctx context.Context, code string) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Flight, error)
}

// MemoryFlightCatalog holds the process-lifetime flight inventory. Flights
// are created once at startup and never removed; only their seat ledgers
// change, and those are mutated by the reservation engine alone.
type MemoryFlightCatalog struct {
	mu      sync.RWMutex
	flights []*domain.Flight
	byCode  map[string]*domain.Flight
}

func NewMemoryFlightCatalog(flights []*domain.Flight) (*MemoryFlightCatalog, error) {
	c := &MemoryFlightCatalog{
		flights: make([]*domain.Flight, 0, len(flights)),
		byCode:  make(map[string]*domain.Flight, len(flights)),
	}
	for _, f := range flights {
		if _, dup := c.byCode[f.Code]; dup {
			return nil, fmt.Errorf("duplicate flight code %q", f.Code)
		}
		c.flights = append(c.flights, f)
		c.byCode[f.Code] = f
	}
	return c, nil
}

func (c *MemoryFlightCatalog) List(ctx context.Context) ([]*domain.Flight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Flight, len(c.flights))
	copy(out, c.flights)
	return out, nil
}

func (c *MemoryFlightCatalog) GetByCode(ctx context.Context, code string) (*domain.Flight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrFlightNotFound, code)
	}
	return f, nil
}

// Search returns, in catalog insertion order, every flight whose origin,
// destination and date exactly equal the query. An empty result is valid.
func (c *MemoryFlightCatalog) Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Flight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	day := date.UTC().Truncate(24 * time.Hour)
	matches := make([]*domain.Flight, 0)
	for _, f := range c.flights {
		if f.Origin == origin && f.Destination == destination && f.Date.Equal(day) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

var _ FlightCatalog = (*MemoryFlightCatalog)(nil)
