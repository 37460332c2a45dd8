package weather

import (
	"context"
	"fmt"
	"strings"
)

// ProviderName identifies one of the supported weather data sources.
type ProviderName string

const (
	AccuWeather  ProviderName = "AccuWeather"
	WeatherAPI   ProviderName = "WeatherAPI"
	AerisWeather ProviderName = "AerisWeather"
)

// ProviderNames lists every supported provider in display order.
var ProviderNames = []ProviderName{AccuWeather, WeatherAPI, AerisWeather}

// ParseProviderName matches a provider name case-insensitively.
func ParseProviderName(s string) (ProviderName, error) {
	for _, p := range ProviderNames {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownProvider, s, providerList())
}

func providerList() string {
	names := make([]string, len(ProviderNames))
	for i, p := range ProviderNames {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Credentials holds the secrets for every provider. A copy is handed to the
// provider being constructed.
type Credentials struct {
	AccuWeatherAPIKey        string
	WeatherAPIKey            string
	AerisWeatherClientID     string
	AerisWeatherClientSecret string
}

// Provider abstracts a weather data source (AccuWeather, WeatherAPI, AerisWeather).
type Provider interface {
	Name() ProviderName
	Run(ctx context.Context, cmd Command) (Report, error)
}

// Factory builds a provider from the configured credentials. It returns
// ErrMissingCredentials when the provider's secrets are absent.
type Factory func(creds Credentials) (Provider, error)
