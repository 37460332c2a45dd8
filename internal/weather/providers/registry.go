package providers

import (
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Registry returns a factory for every supported provider. Factories share
// opts; baseURLs optionally overrides the endpoint per provider. Every provider
// built by one registry reuses that provider's circuit breaker.
func Registry(opts Options, baseURLs map[weather.ProviderName]string) map[weather.ProviderName]weather.Factory {
	circuits := make(map[weather.ProviderName]*gobreaker.CircuitBreaker, len(weather.ProviderNames))
	for _, name := range weather.ProviderNames {
		circuits[name] = newCircuitBreaker(name)
	}

	with := func(name weather.ProviderName) Options {
		o := opts
		if u := baseURLs[name]; u != "" {
			o.BaseURL = u
		}
		o.circuit = circuits[name]
		return o
	}

	return map[weather.ProviderName]weather.Factory{
		weather.AccuWeather: func(creds weather.Credentials) (weather.Provider, error) {
			if creds.AccuWeatherAPIKey == "" {
				return nil, missing(weather.AccuWeather, "API key")
			}
			return NewAccuWeatherProvider(AccuWeatherConfig{
				Options: with(weather.AccuWeather),
				APIKey:  creds.AccuWeatherAPIKey,
			}), nil
		},
		weather.WeatherAPI: func(creds weather.Credentials) (weather.Provider, error) {
			if creds.WeatherAPIKey == "" {
				return nil, missing(weather.WeatherAPI, "API key")
			}
			return NewWeatherAPIProvider(WeatherAPIConfig{
				Options: with(weather.WeatherAPI),
				APIKey:  creds.WeatherAPIKey,
			}), nil
		},
		weather.AerisWeather: func(creds weather.Credentials) (weather.Provider, error) {
			if creds.AerisWeatherClientID == "" || creds.AerisWeatherClientSecret == "" {
				return nil, missing(weather.AerisWeather, "client id and secret")
			}
			return NewAerisWeatherProvider(AerisWeatherConfig{
				Options:      with(weather.AerisWeather),
				ClientID:     creds.AerisWeatherClientID,
				ClientSecret: creds.AerisWeatherClientSecret,
			}), nil
		},
	}
}

func missing(name weather.ProviderName, what string) error {
	return fmt.Errorf("%w: you haven't set the %s %s", weather.ErrMissingCredentials, name, what)
}
