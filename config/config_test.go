package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	raw := `
http:
  address: ":8080"
redis:
  enabled: true
  addr: "localhost:6379"
kafka:
  enabled: true
  brokers: ["localhost:9092"]
  booking_topic: "booking-events"
  notifications_topic: "booking-notifications"
  group_id: "flightdesk-notifications"
booking:
  seat_lock_ttl_seconds: 30
  flights_cache_ttl_seconds: 60
catalog:
  flights:
    - code: "QP101"
      origin: "BKK"
      destination: "DEL"
      depart_time: "08:00"
      arrive_time: "10:30"
      fare: 3500
  generator:
    enabled: true
    seed: 42
    days: 5
    flights_per_day: 10
    cities: ["BKK", "DEL"]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Booking.SeatLockTTLSeconds)
	require.Len(t, cfg.Catalog.Flights, 1)
	assert.Equal(t, "QP101", cfg.Catalog.Flights[0].Code)
	assert.Equal(t, 3500.0, cfg.Catalog.Flights[0].Fare)
	assert.Equal(t, int64(42), cfg.Catalog.Generator.Seed)
	assert.Equal(t, 10, cfg.Catalog.Generator.FlightsPerDay)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [oops"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
