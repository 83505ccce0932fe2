// Package config loads the settings the server needs at startup: where MongoDB
// lives, which collection backs each entity, and how to serve HTTP.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dwoolworth/tagger/internal"
	"gopkg.in/yaml.v2"
)

// Collections names the collection backing each entity type.
type Collections struct {
	Users         string `yaml:"users"`
	Drivers       string `yaml:"drivers"`
	Vehicles      string `yaml:"vehicles"`
	Services      string `yaml:"services"`
	VehicleColors string `yaml:"vehicle_colors"`
	VehicleTypes  string `yaml:"vehicle_types"`
}

// Mongo holds the connection settings for the document store.
type Mongo struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Collections    Collections   `yaml:"collections"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Address     string        `yaml:"address"`
	BodyLimit   int           `yaml:"body_limit"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	CORSOrigins string        `yaml:"cors_origins"`
}

// Log holds the logger settings.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the full process configuration.
type Config struct {
	Mongo  Mongo  `yaml:"mongo"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "tagger",
			Collections: Collections{
				Users:         internal.CollectionName("User"),
				Drivers:       internal.CollectionName("Driver"),
				Vehicles:      internal.CollectionName("Vehicle"),
				Services:      internal.CollectionName("Service"),
				VehicleColors: internal.CollectionName("VehicleColor"),
				VehicleTypes:  internal.CollectionName("VehicleType"),
			},
			ConnectTimeout: 2 * time.Minute,
		},
		Server: Server{
			Address:     ":8080",
			BodyLimit:   4 * 1024 * 1024,
			ReadTimeout: 30 * time.Second,
			CORSOrigins: "*",
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and TAGGER_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defVal
	}
	return val
}

func (c *Config) applyEnv() error {
	c.Mongo.URI = GetEnvDefault("TAGGER_MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = GetEnvDefault("TAGGER_MONGO_DB", c.Mongo.Database)

	cols := &c.Mongo.Collections
	cols.Users = GetEnvDefault("TAGGER_USERS_COLLECTION", cols.Users)
	cols.Drivers = GetEnvDefault("TAGGER_DRIVERS_COLLECTION", cols.Drivers)
	cols.Vehicles = GetEnvDefault("TAGGER_VEHICLES_COLLECTION", cols.Vehicles)
	cols.Services = GetEnvDefault("TAGGER_SERVICES_COLLECTION", cols.Services)
	cols.VehicleColors = GetEnvDefault("TAGGER_VEHICLE_COLORS_COLLECTION", cols.VehicleColors)
	cols.VehicleTypes = GetEnvDefault("TAGGER_VEHICLE_TYPES_COLLECTION", cols.VehicleTypes)

	c.Server.Address = GetEnvDefault("TAGGER_ADDR", c.Server.Address)
	c.Server.CORSOrigins = GetEnvDefault("TAGGER_CORS_ORIGINS", c.Server.CORSOrigins)
	c.Log.Level = GetEnvDefault("TAGGER_LOG_LEVEL", c.Log.Level)

	if v, ok := os.LookupEnv("TAGGER_BODY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid TAGGER_BODY_LIMIT: %w", err)
		}
		c.Server.BodyLimit = n
	}
	return nil
}

// Validate reports missing settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("mongo.database is required"))
	}

	cols := c.Mongo.Collections
	for _, col := range []struct{ name, value string }{
		{"users", cols.Users},
		{"drivers", cols.Drivers},
		{"vehicles", cols.Vehicles},
		{"services", cols.Services},
		{"vehicle_colors", cols.VehicleColors},
		{"vehicle_types", cols.VehicleTypes},
	} {
		if col.value == "" {
			errs = append(errs, fmt.Errorf("mongo.collections.%s is required", col.name))
		}
	}

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
