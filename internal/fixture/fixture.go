// Package fixture turns the catalog section of the config file into domain
// flights. It also carries the demo schedule generator, so a bare config
// still yields a searchable catalog. Seeding is external input, not engine
// logic.
package fixture

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
)

// Flights builds the startup inventory: explicit fixtures first, then the
// generated schedule. Generated codes continue after the explicit ones so
// the two sources cannot collide.
func Flights(cfg config.CatalogConfig, today time.Time) ([]*domain.Flight, error) {
	fixtures := cfg.Flights
	if cfg.Generator.Enabled {
		fixtures = append(fixtures, Generate(cfg.Generator, today, 101+len(cfg.Flights))...)
	}

	flights := make([]*domain.Flight, 0, len(fixtures))
	for _, fx := range fixtures {
		f, err := toFlight(fx, today)
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", fx.Code, err)
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func toFlight(fx config.FlightFixture, today time.Time) (*domain.Flight, error) {
	if fx.Code == "" || fx.Origin == "" || fx.Destination == "" {
		return nil, fmt.Errorf("code, origin and destination are required")
	}
	date := today.UTC().Truncate(24 * time.Hour)
	if fx.Date != "" {
		parsed, err := domain.ParseDate(fx.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	if err := validTimeOfDay(fx.DepartTime); err != nil {
		return nil, err
	}
	if err := validTimeOfDay(fx.ArriveTime); err != nil {
		return nil, err
	}
	if fx.Fare < 0 {
		return nil, fmt.Errorf("fare must be non-negative, got %v", fx.Fare)
	}
	fareCents := int64(math.Round(fx.Fare * 100))
	return domain.NewFlight(fx.Code, fx.Origin, fx.Destination, fx.DepartTime, fx.ArriveTime, date, fareCents), nil
}

func validTimeOfDay(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time of day %q, use HH:MM", s)
	}
	return nil
}

// Generate produces the demo schedule: for each of the next Days days,
// FlightsPerDay random routes between distinct cities. The seed makes the
// schedule reproducible across restarts.
func Generate(gc config.GeneratorConfig, today time.Time, firstCode int) []config.FlightFixture {
	cities := gc.Cities
	if len(cities) < 2 {
		cities = []string{"BKK", "CNX", "DEL", "PNQ", "BOM", "BLR", "HYD", "GOI"}
	}
	r := rand.New(rand.NewSource(gc.Seed))
	start := today.UTC().Truncate(24 * time.Hour)

	code := firstCode
	fixtures := make([]config.FlightFixture, 0, gc.Days*gc.FlightsPerDay)
	for d := 0; d < gc.Days; d++ {
		date := start.AddDate(0, 0, d)
		for i := 0; i < gc.FlightsPerDay; i++ {
			src := cities[r.Intn(len(cities))]
			dst := src
			for dst == src {
				dst = cities[r.Intn(len(cities))]
			}
			depMin, arrMin := 0, 0
			if r.Intn(2) == 1 {
				depMin = 30
			}
			if r.Intn(2) == 1 {
				arrMin = 30
			}
			fixtures = append(fixtures, config.FlightFixture{
				Code:        fmt.Sprintf("QP%d", code),
				Origin:      src,
				Destination: dst,
				Date:        date.Format(time.DateOnly),
				DepartTime:  fmt.Sprintf("%02d:%02d", 6+r.Intn(14), depMin),
				ArriveTime:  fmt.Sprintf("%02d:%02d", 6+r.Intn(14), arrMin),
				Fare:        float64(2000 + r.Intn(8000)),
			})
			code++
		}
	}
	return fixtures
}
