// Package config loads application settings from the environment
// (populated from an optional .env file in main.go).
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

const (
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
)

// Config holds all configuration for the application.
type Config struct {
	DB         DBConfig
	Mongo      MongoConfig
	LogFile    string
	SampleSize int
}

// DBConfig describes the relational store holding both the source and results tables.
type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// MongoConfig is optional. An empty ConnString keeps the built-in supplemental records.
type MongoConfig struct {
	ConnString string
	Database   string
	Collection string
}

// Enabled reports whether a live Mongo source was configured.
func (m MongoConfig) Enabled() bool {
	return m.ConnString != ""
}

// LoadConfig loads application settings from environment variables,
// falling back to the documented defaults.
func LoadConfig() (*Config, error) {
	port, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	sampleSize, err := getEnvInt("ETL_SAMPLE_SIZE", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", DriverPostgres),
			Host:     getEnv("DB_HOST", "database"),
			Port:     port,
			Name:     getEnv("DB_NAME", "etl_db"),
			User:     getEnv("DB_USER", "etl_user"),
			Password: getEnv("DB_PASSWORD", "etl_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			ConnString: os.Getenv("MONGO_CONNECTION_STRING"),
			Database:   getEnv("MONGO_DATABASE", "etl_db"),
			Collection: getEnv("MONGO_COLLECTION", "external_sales"),
		},
		LogFile:    os.Getenv("ETL_LOG_FILE"),
		SampleSize: sampleSize,
	}

	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLServer {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLServer, cfg.DB.Driver)
	}
	if cfg.SampleSize < 0 {
		return nil, fmt.Errorf("ETL_SAMPLE_SIZE must not be negative, got %d", cfg.SampleSize)
	}
	return cfg, nil
}

// DSN builds the driver-specific connection string.
func (c DBConfig) DSN() string {
	switch c.Driver {
	case DriverSQLServer:
		q := url.Values{}
		q.Set("database", c.Name)
		u := &url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			RawQuery: q.Encode(),
		}
		return u.String()
	default:
		q := url.Values{}
		q.Set("sslmode", c.SSLMode)
		u := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: q.Encode(),
		}
		return u.String()
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return i, nil
}
