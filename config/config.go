package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Booking BookingConfig `yaml:"booking"`
	Catalog CatalogConfig `yaml:"catalog"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	SeatLockTTLSeconds     int `yaml:"seat_lock_ttl_seconds"`
	FlightsCacheTTLSeconds int `yaml:"flights_cache_ttl_seconds"`
}

// CatalogConfig is the external fixture shape consumed at startup: an
// explicit flight list, optionally topped up by the demo schedule generator.
type CatalogConfig struct {
	Flights   []FlightFixture `yaml:"flights"`
	Generator GeneratorConfig `yaml:"generator"`
}

type FlightFixture struct {
	Code        string  `yaml:"code"`
	Origin      string  `yaml:"origin"`
	Destination string  `yaml:"destination"`
	Date        string  `yaml:"date"` // YYYY-MM-DD; empty means today
	DepartTime  string  `yaml:"depart_time"`
	ArriveTime  string  `yaml:"arrive_time"`
	Fare        float64 `yaml:"fare"`
}

type GeneratorConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Seed          int64    `yaml:"seed"`
	Days          int      `yaml:"days"`
	FlightsPerDay int      `yaml:"flights_per_day"`
	Cities        []string `yaml:"cities"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
