package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightSummary, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.FlightSummary, error)
	GetByCode(ctx context.Context, code string) (domain.FlightSummary, error)
	SeatMap(ctx context.Context, code string) ([]domain.SeatStatus, error)
}

// FlightCache is the optional Redis-backed cache for the full flight list.
// Search results always come from the catalog so availability is live.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.FlightSummary, error)
	SetFlights(ctx context.Context, flights []domain.FlightSummary) error
}

type FlightService struct {
	catalog repository.FlightCatalog
	cache   FlightCache
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func NewFlightService(catalog repository.FlightCatalog, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{catalog: catalog}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) List(ctx context.Context) ([]domain.FlightSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := summarize(flights)
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, summaries)
	}
	return summaries, nil
}

func (s *FlightService) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.FlightSummary, error) {
	flights, err := s.catalog.Search(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}
	return summarize(flights), nil
}

func (s *FlightService) GetByCode(ctx context.Context, code string) (domain.FlightSummary, error) {
	flight, err := s.catalog.GetByCode(ctx, code)
	if err != nil {
		return domain.FlightSummary{}, err
	}
	return flight.Summary(), nil
}

func (s *FlightService) SeatMap(ctx context.Context, code string) ([]domain.SeatStatus, error) {
	flight, err := s.catalog.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return flight.SeatMap(), nil
}

func summarize(flights []*domain.Flight) []domain.FlightSummary {
	summaries := make([]domain.FlightSummary, 0, len(flights))
	for _, f := range flights {
		summaries = append(summaries, f.Summary())
	}
	return summaries
}

var _ FlightUseCase = (*FlightService)(nil)
