package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Settings are the runtime knobs read from the environment (and an optional .env file).
// Credentials and the default provider live in the Configuration file instead.
type Settings struct {
	// ConfigPath overrides the configuration file location.
	ConfigPath string

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration

	LogLevel zapcore.Level

	// BaseURLs overrides provider endpoints, mostly for test doubles.
	BaseURLs map[weather.ProviderName]string

	ServeAddr     string
	WatchInterval time.Duration
}

// Load reads settings from environment with sensible defaults.
func Load() (*Settings, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	s := &Settings{
		ConfigPath: os.Getenv("WEATHER_CONFIG_PATH"),
		ServeAddr:  getenvDefault("WEATHER_SERVE_ADDR", ":8080"),
		BaseURLs:   make(map[weather.ProviderName]string),
	}

	timeout, err := time.ParseDuration(getenvDefault("WEATHER_HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_HTTP_TIMEOUT: %w", err)
	}
	s.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("WEATHER_WATCH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_WATCH_INTERVAL: %w", err)
	}
	s.WatchInterval = interval

	level, err := zapcore.ParseLevel(getenvDefault("WEATHER_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_LOG_LEVEL: %w", err)
	}
	s.LogLevel = level

	for name, key := range map[weather.ProviderName]string{
		weather.AccuWeather:  "WEATHER_ACCUWEATHER_BASE_URL",
		weather.WeatherAPI:   "WEATHER_WEATHERAPI_BASE_URL",
		weather.AerisWeather: "WEATHER_AERISWEATHER_BASE_URL",
	} {
		if v := os.Getenv(key); v != "" {
			s.BaseURLs[name] = v
		}
	}

	return s, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
