package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds everything atmos reads from the environment.
type Config struct {
	// GoogleMapsAPIKey authorizes both the geocoding and the weather endpoints.
	// It may legitimately be empty: places management works without it, and the
	// orchestrator reports the missing credential before touching the network.
	GoogleMapsAPIKey string

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// ForecastDays is the default window for forecast-driven views.
	ForecastDays int `validate:"min=1,max=10"`

	// PlacesFile is the saved-places registry path.
	PlacesFile string `validate:"required"`

	// Port is the listen port for `atmos serve`.
	Port string `validate:"required"`
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory or under ~/.config/atmos is honored
// first (already-set environment variables win).
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		ForecastDays:     getenvInt("ATMOS_FORECAST_DAYS", 5),
		Port:             getenvDefault("ATMOS_PORT", "8080"),
	}

	timeoutStr := getenvDefault("ATMOS_HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ATMOS_HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.PlacesFile = os.Getenv("ATMOS_PLACES_FILE")
	if cfg.PlacesFile == "" {
		cfg.PlacesFile = defaultPlacesFile()
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the application logger. Services receive it via injection
// so tests can swap in a silent one.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadDotenv() {
	// Working directory first, then the user config directory. godotenv never
	// overrides variables that are already set, so precedence is env > cwd
	// .env > ~/.config/atmos/.env.
	_ = godotenv.Load()
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".config", "atmos", ".env"))
	}
}

func defaultPlacesFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "places.json"
	}
	return filepath.Join(home, ".config", "atmos", "places.json")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
