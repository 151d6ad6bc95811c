package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceRealtime = "realtime"
	SourceInfluxDB = "influxdb"
)

// Config holds the application's configuration.
type Config struct {
	Port           string
	AllowedOrigins []string

	// APIBaseURL is the backend serving /auth/* and /electricity/*.
	APIBaseURL string

	ReadingSource string

	RealtimeDBURL  string
	RealtimeDBAuth string
	RealtimeNode   string

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	Auth0 Auth0Config

	AdminPollInterval time.Duration
	ClockInterval     time.Duration
	NumericHourSort   bool
}

// Auth0Config stores the details needed to validate admin bearer tokens.
// Admin routes are open when Domain is empty.
type Auth0Config struct {
	Domain   string
	Audience string
}

func (a Auth0Config) Enabled() bool {
	return a.Domain != ""
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:           get("PORT", "8080"),
		AllowedOrigins: splitList(get("ALLOWED_ORIGINS", "http://localhost:4200,http://localhost:5173")),
		APIBaseURL:     strings.TrimRight(get("API_BASE_URL", "http://localhost:8000"), "/"),
		ReadingSource:  strings.ToLower(get("READING_SOURCE", SourceRealtime)),
		RealtimeDBURL:  strings.TrimRight(get("REALTIME_DB_URL", ""), "/"),
		RealtimeDBAuth: get("REALTIME_DB_AUTH", ""),
		RealtimeNode:   get("REALTIME_DB_NODE", "electricity_usage"),
		InfluxDBURL:    get("INFLUXDB_URL", ""),
		InfluxDBToken:  get("INFLUXDB_TOKEN", ""),
		InfluxDBOrg:    get("INFLUXDB_ORG", ""),
		InfluxDBBucket: get("INFLUXDB_BUCKET", "consumption_data"),
		Auth0: Auth0Config{
			Domain:   get("AUTH0_DOMAIN", ""),
			Audience: get("AUTH0_AUDIENCE", ""),
		},
	}

	var err error
	if cfg.AdminPollInterval, err = time.ParseDuration(get("ADMIN_POLL_INTERVAL", "30s")); err != nil {
		return Config{}, fmt.Errorf("invalid ADMIN_POLL_INTERVAL: %w", err)
	}
	if cfg.ClockInterval, err = time.ParseDuration(get("CLOCK_INTERVAL", "1s")); err != nil {
		return Config{}, fmt.Errorf("invalid CLOCK_INTERVAL: %w", err)
	}
	if cfg.NumericHourSort, err = strconv.ParseBool(get("USAGE_NUMERIC_HOUR_SORT", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid USAGE_NUMERIC_HOUR_SORT: %w", err)
	}

	switch cfg.ReadingSource {
	case SourceRealtime:
		if cfg.RealtimeDBURL == "" {
			return Config{}, fmt.Errorf("realtime database configuration is incomplete. Please set REALTIME_DB_URL")
		}
	case SourceInfluxDB:
		if cfg.InfluxDBURL == "" || cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
			return Config{}, fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
		}
	default:
		return Config{}, fmt.Errorf("unknown READING_SOURCE %q (want %s or %s)", cfg.ReadingSource, SourceRealtime, SourceInfluxDB)
	}
	if cfg.Auth0.Enabled() && cfg.Auth0.Audience == "" {
		return Config{}, fmt.Errorf("AUTH0_AUDIENCE is required when AUTH0_DOMAIN is set")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
