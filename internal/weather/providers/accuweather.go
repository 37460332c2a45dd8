package providers

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const accuWeatherBaseURL = "http://dataservice.accuweather.com"

// AccuWeatherConfig configures an AccuWeatherProvider.
type AccuWeatherConfig struct {
	Options
	APIKey string
}

// AccuWeatherProvider implements the weather.Provider interface for AccuWeather.
// A lookup is two sequential calls: the location search resolves the free-text
// location to a location key, then current conditions are fetched by that key.
//
// Only current conditions are available; forecast and history lookups fail
// with weather.ErrUnsupported.
type AccuWeatherProvider struct {
	apiKey string
	opts   Options
	http   *transport
}

var _ weather.Provider = (*AccuWeatherProvider)(nil)

func NewAccuWeatherProvider(cfg AccuWeatherConfig) *AccuWeatherProvider {
	opts := cfg.Options.withDefaults(accuWeatherBaseURL)
	return &AccuWeatherProvider{
		apiKey: cfg.APIKey,
		opts:   opts,
		http:   newTransport(weather.AccuWeather, opts),
	}
}

func (p *AccuWeatherProvider) Name() weather.ProviderName {
	return weather.AccuWeather
}

func (p *AccuWeatherProvider) Run(ctx context.Context, cmd weather.Command) (weather.Report, error) {
	if !cmd.Date.IsNow() {
		// TODO: wire the AccuWeather forecast and historical endpoints once their
		// request parameters are confirmed against the API docs.
		return weather.Report{}, fmt.Errorf("%w: AccuWeather: forecast and history lookups (%s) are not implemented", weather.ErrUnsupported, cmd.Date)
	}

	key, err := p.locationKey(ctx, cmd.Location)
	if err != nil {
		return weather.Report{}, err
	}
	return p.current(ctx, key)
}

func (p *AccuWeatherProvider) query() url.Values {
	values := url.Values{}
	values.Set("apikey", p.apiKey)
	return values
}

// locationKey resolves a location name to AccuWeather's location key using the
// first search match.
func (p *AccuWeatherProvider) locationKey(ctx context.Context, location string) (string, error) {
	q := p.query()
	q.Set("q", location)

	body, err := p.http.get(ctx, request{
		phase: "location query",
		path:  "/locations/v1/search",
		query: q,
	})
	if err != nil {
		return "", err
	}

	items, err := decodeList[accuWeatherLocation]("location search response", body)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: AccuWeather has no match for %q", weather.ErrLocationNotFound, location)
	}

	p.opts.Logger.Debug("accuweather: resolved location",
		zap.String("location", location),
		zap.String("key", items[0].Key),
		zap.String("name", items[0].LocalizedName),
	)
	return items[0].Key, nil
}

func (p *AccuWeatherProvider) current(ctx context.Context, key string) (weather.Report, error) {
	body, err := p.http.get(ctx, request{
		phase:      "current conditions request",
		path:       "/currentconditions/v1/{key}",
		pathParams: map[string]string{"key": key},
		query:      p.query(),
	})
	if err != nil {
		return weather.Report{}, err
	}

	items, err := decodeList[accuWeatherConditions]("current conditions response", body)
	if err != nil {
		return weather.Report{}, err
	}
	if len(items) == 0 {
		return weather.Report{}, fmt.Errorf("%w: couldn't parse the current conditions response: no observations", weather.ErrDecode)
	}
	return reportAccuWeatherCurrent(items[0]), nil
}

type accuWeatherLocation struct {
	Key           string `json:"Key" validate:"required"`
	LocalizedName string `json:"LocalizedName"`
}

type accuWeatherMeasure struct {
	Value *float64 `json:"Value" validate:"required"`
	Unit  string   `json:"Unit"`
}

type accuWeatherConditions struct {
	WeatherText string `json:"WeatherText" validate:"required"`
	EpochTime   int64  `json:"EpochTime" validate:"required"`
	Temperature *struct {
		Metric   *accuWeatherMeasure `json:"Metric" validate:"required"`
		Imperial *accuWeatherMeasure `json:"Imperial" validate:"required"`
	} `json:"Temperature" validate:"required"`
}

func reportAccuWeatherCurrent(c accuWeatherConditions) weather.Report {
	r := weather.NewReport("AccuWeather - current")

	s := weather.NewSection(epoch(c.EpochTime).Format(hourlyLayout))
	s.Add("Condition", c.WeatherText).
		Add("Temperature, C", degrees(*c.Temperature.Metric.Value)).
		Add("Temperature, F", degrees(*c.Temperature.Imperial.Value))
	r.AddSection(s)
	return r
}
