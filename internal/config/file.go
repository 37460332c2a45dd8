package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Configuration is the persisted user configuration: the selected provider and
// the credentials for each provider. Every field is optional.
type Configuration struct {
	DefaultProvider          weather.ProviderName `json:"default_provider,omitempty"`
	AccuWeatherAPIKey        string               `json:"accuweather_api_key,omitempty"`
	WeatherAPIKey            string               `json:"weatherapi_api_key,omitempty"`
	AerisWeatherClientID     string               `json:"aerisweather_client_id,omitempty"`
	AerisWeatherClientSecret string               `json:"aerisweather_client_secret,omitempty"`
}

// Default returns an empty configuration.
func Default() *Configuration {
	return &Configuration{}
}

// DefaultPath is <user config dir>/weather/config.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("couldn't find the config directory: %w", err)
	}
	return filepath.Join(dir, "weather", "config.json"), nil
}

// Open reads the configuration at path, returning Default when the file does not exist.
func Open(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read the configuration file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse the configuration file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as needed.
func (c *Configuration) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("couldn't create the config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't encode the configuration: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("couldn't save the config file: %w", err)
	}
	return nil
}

// Credentials copies the stored secrets for handing to a provider.
func (c *Configuration) Credentials() weather.Credentials {
	return weather.Credentials{
		AccuWeatherAPIKey:        c.AccuWeatherAPIKey,
		WeatherAPIKey:            c.WeatherAPIKey,
		AerisWeatherClientID:     c.AerisWeatherClientID,
		AerisWeatherClientSecret: c.AerisWeatherClientSecret,
	}
}

// SetAPIKey stores the single API key of an AccuWeather or WeatherAPI provider.
func (c *Configuration) SetAPIKey(p weather.ProviderName, key string) error {
	switch p {
	case weather.AccuWeather:
		c.AccuWeatherAPIKey = key
	case weather.WeatherAPI:
		c.WeatherAPIKey = key
	default:
		return fmt.Errorf("%s does not use a single API key", p)
	}
	return nil
}

// SetAerisWeatherCredentials stores the AerisWeather client id and secret.
func (c *Configuration) SetAerisWeatherCredentials(clientID, clientSecret string) {
	c.AerisWeatherClientID = clientID
	c.AerisWeatherClientSecret = clientSecret
}
