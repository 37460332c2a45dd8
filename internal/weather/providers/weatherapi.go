package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const weatherAPIBaseURL = "https://api.weatherapi.com"

// WeatherAPIConfig configures a WeatherAPIProvider.
type WeatherAPIConfig struct {
	Options
	APIKey string
}

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Day offsets in the future use the forecast endpoint, past ones the history
// endpoint. Hourly offsets are not supported.
type WeatherAPIProvider struct {
	apiKey string
	opts   Options
	http   *transport
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)

func NewWeatherAPIProvider(cfg WeatherAPIConfig) *WeatherAPIProvider {
	opts := cfg.Options.withDefaults(weatherAPIBaseURL)
	return &WeatherAPIProvider{
		apiKey: cfg.APIKey,
		opts:   opts,
		http:   newTransport(weather.WeatherAPI, opts),
	}
}

func (p *WeatherAPIProvider) Name() weather.ProviderName {
	return weather.WeatherAPI
}

func (p *WeatherAPIProvider) Run(ctx context.Context, cmd weather.Command) (weather.Report, error) {
	switch cmd.Date.Kind() {
	case weather.OffsetNow:
		return p.current(ctx, cmd.Location)
	case weather.OffsetDays:
		days := cmd.Date.Amount()
		if days > 0 {
			return p.forecast(ctx, cmd.Location, days)
		}
		dt := cmd.Date.Resolve(p.opts.Clock()).UTC().Format("2006-01-02")
		return p.history(ctx, cmd.Location, dt)
	case weather.OffsetHours:
		return weather.Report{}, fmt.Errorf("%w: WeatherAPI: hourly offsets are not supported", weather.ErrUnsupported)
	default:
		return weather.Report{}, fmt.Errorf("%w: WeatherAPI: date offset %s is not implemented", weather.ErrUnsupported, cmd.Date)
	}
}

func (p *WeatherAPIProvider) query(location string) url.Values {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", location)
	values.Set("aqi", "no")
	return values
}

func (p *WeatherAPIProvider) current(ctx context.Context, location string) (weather.Report, error) {
	p.opts.Logger.Debug("weatherapi: current branch", zap.String("location", location))

	body, err := p.http.get(ctx, request{
		phase: "current weather request",
		path:  "/v1/current.json",
		query: p.query(location),
	})
	if err != nil {
		return weather.Report{}, err
	}

	var payload weatherAPICurrent
	if err := decode("current weather response", body, &payload); err != nil {
		return weather.Report{}, err
	}
	return reportWeatherAPICurrent(payload), nil
}

func (p *WeatherAPIProvider) forecast(ctx context.Context, location string, days int) (weather.Report, error) {
	p.opts.Logger.Debug("weatherapi: forecast branch", zap.String("location", location), zap.Int("days", days))

	q := p.query(location)
	q.Set("alerts", "no")
	q.Set("days", strconv.Itoa(days))

	body, err := p.http.get(ctx, request{
		phase: "forecast request",
		path:  "/v1/forecast.json",
		query: q,
	})
	if err != nil {
		return weather.Report{}, err
	}

	var payload weatherAPIDaily
	if err := decode("forecast response", body, &payload); err != nil {
		return weather.Report{}, err
	}
	return reportWeatherAPIDaily("WeatherAPI - forecast", payload), nil
}

func (p *WeatherAPIProvider) history(ctx context.Context, location, dt string) (weather.Report, error) {
	p.opts.Logger.Debug("weatherapi: history branch", zap.String("location", location), zap.String("dt", dt))

	q := p.query(location)
	q.Set("alerts", "no")
	q.Set("dt", dt)

	body, err := p.http.get(ctx, request{
		phase: "history request",
		path:  "/v1/history.json",
		query: q,
	})
	if err != nil {
		return weather.Report{}, err
	}

	var payload weatherAPIDaily
	if err := decode("history response", body, &payload); err != nil {
		return weather.Report{}, err
	}
	return reportWeatherAPIDaily("WeatherAPI - history", payload), nil
}

type weatherAPILocation struct {
	Name string `json:"name" validate:"required"`
}

type weatherAPICondition struct {
	Text string `json:"text" validate:"required"`
}

// weatherAPICurrent is the /v1/current.json payload.
type weatherAPICurrent struct {
	Location *weatherAPILocation `json:"location" validate:"required"`
	Current  *struct {
		LastUpdatedEpoch int64                `json:"last_updated_epoch" validate:"required"`
		TempC            *float64             `json:"temp_c" validate:"required"`
		TempF            *float64             `json:"temp_f" validate:"required"`
		WindKph          *float64             `json:"wind_kph" validate:"required"`
		WindMph          *float64             `json:"wind_mph" validate:"required"`
		WindDir          string               `json:"wind_dir" validate:"required"`
		Humidity         *float64             `json:"humidity" validate:"required"`
		Condition        *weatherAPICondition `json:"condition" validate:"required"`
	} `json:"current" validate:"required"`
}

// weatherAPIDaily is shared by the /v1/forecast.json and /v1/history.json payloads.
type weatherAPIDaily struct {
	Location *weatherAPILocation `json:"location" validate:"required"`
	Forecast *struct {
		ForecastDay []weatherAPIDay `json:"forecastday" validate:"required,min=1,dive"`
	} `json:"forecast" validate:"required"`
}

type weatherAPIDay struct {
	DateEpoch int64 `json:"date_epoch" validate:"required"`
	Day       *struct {
		MaxTempC    *float64             `json:"maxtemp_c" validate:"required"`
		MaxTempF    *float64             `json:"maxtemp_f" validate:"required"`
		MinTempC    *float64             `json:"mintemp_c" validate:"required"`
		MinTempF    *float64             `json:"mintemp_f" validate:"required"`
		MaxWindKph  *float64             `json:"maxwind_kph" validate:"required"`
		MaxWindMph  *float64             `json:"maxwind_mph" validate:"required"`
		AvgHumidity *float64             `json:"avghumidity" validate:"required"`
		Condition   *weatherAPICondition `json:"condition" validate:"required"`
	} `json:"day" validate:"required"`
}

func reportWeatherAPICurrent(payload weatherAPICurrent) weather.Report {
	c := payload.Current
	r := weather.NewReport("WeatherAPI - current")

	s := weather.NewSection(epoch(c.LastUpdatedEpoch).Format(hourlyLayout))
	s.Add("Condition", c.Condition.Text).
		Add("Temperature, C", degrees(*c.TempC)).
		Add("Temperature, F", degrees(*c.TempF)).
		Add("Humidity", percent(*c.Humidity)).
		Add("Wind direction", c.WindDir).
		Add("Wind speed km/h", number(*c.WindKph)).
		Add("Wind speed mi/h", number(*c.WindMph))
	r.AddSection(s)
	return r
}

func reportWeatherAPIDaily(title string, payload weatherAPIDaily) weather.Report {
	r := weather.NewReport(title)
	for _, fd := range payload.Forecast.ForecastDay {
		d := fd.Day
		s := weather.NewSection(epoch(fd.DateEpoch).Format(dailyLayout))
		s.Add("Condition", d.Condition.Text).
			Add("Minimum temp., C", degrees(*d.MinTempC)).
			Add("Maximum temp., C", degrees(*d.MaxTempC)).
			Add("Minimum temp., F", degrees(*d.MinTempF)).
			Add("Maximum temp., F", degrees(*d.MaxTempF)).
			Add("Average humidity", percent(*d.AvgHumidity)).
			Add("Maximum wind km/h", number(*d.MaxWindKph)).
			Add("Maximum wind mi/h", number(*d.MaxWindMph))
		r.AddSection(s)
	}
	return r
}
