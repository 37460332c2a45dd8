package providers

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const aerisWeatherBaseURL = "https://api.aerisapi.com"

// AerisWeatherConfig configures an AerisWeatherProvider.
type AerisWeatherConfig struct {
	Options
	ClientID     string
	ClientSecret string
}

// AerisWeatherProvider implements the weather.Provider interface for AerisWeather.
//
// Hour offsets go to the hourly conditions endpoint with a relative "from"
// selector, day offsets to the daily summary endpoint with an absolute date.
// Forecast and history share a request shape and only differ in the report title.
type AerisWeatherProvider struct {
	clientID     string
	clientSecret string
	opts         Options
	http         *transport
}

var _ weather.Provider = (*AerisWeatherProvider)(nil)

func NewAerisWeatherProvider(cfg AerisWeatherConfig) *AerisWeatherProvider {
	opts := cfg.Options.withDefaults(aerisWeatherBaseURL)
	return &AerisWeatherProvider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		opts:         opts,
		http:         newTransport(weather.AerisWeather, opts),
	}
}

func (p *AerisWeatherProvider) Name() weather.ProviderName {
	return weather.AerisWeather
}

func (p *AerisWeatherProvider) Run(ctx context.Context, cmd weather.Command) (weather.Report, error) {
	switch cmd.Date.Kind() {
	case weather.OffsetNow:
		return p.hourly(ctx, cmd.Location, 0)
	case weather.OffsetHours:
		if cmd.Date.Amount() == 0 {
			return p.current(ctx, cmd.Location)
		}
		return p.hourly(ctx, cmd.Location, cmd.Date.Amount())
	case weather.OffsetDays:
		if cmd.Date.Amount() == 0 {
			return p.current(ctx, cmd.Location)
		}
		return p.daily(ctx, cmd.Location, cmd.Date)
	default:
		return weather.Report{}, fmt.Errorf("%w: AerisWeather: date offset %s is not implemented", weather.ErrUnsupported, cmd.Date)
	}
}

func (p *AerisWeatherProvider) query() url.Values {
	values := url.Values{}
	values.Set("client_id", p.clientID)
	values.Set("client_secret", p.clientSecret)
	return values
}

func (p *AerisWeatherProvider) current(ctx context.Context, location string) (weather.Report, error) {
	p.opts.Logger.Debug("aerisweather: current branch", zap.String("location", location))

	body, err := p.http.get(ctx, request{
		phase:      "current conditions request",
		path:       "/conditions/{location}",
		pathParams: map[string]string{"location": location},
		query:      p.query(),
	})
	if err != nil {
		return weather.Report{}, err
	}

	periods, err := decodeAeris[aerisHourlyPeriod]("current conditions response", body)
	if err != nil {
		return weather.Report{}, err
	}
	return reportAerisHourly("AerisWeather - current", periods), nil
}

func (p *AerisWeatherProvider) hourly(ctx context.Context, location string, hours int) (weather.Report, error) {
	from := relativeHours(hours)
	p.opts.Logger.Debug("aerisweather: hourly branch", zap.String("location", location), zap.String("from", from))

	q := p.query()
	q.Set("from", from)
	q.Set("filter", "1hr")

	body, err := p.http.get(ctx, request{
		phase:      "hourly conditions request",
		path:       "/conditions/{location}",
		pathParams: map[string]string{"location": location},
		query:      q,
	})
	if err != nil {
		return weather.Report{}, err
	}

	periods, err := decodeAeris[aerisHourlyPeriod]("hourly conditions response", body)
	if err != nil {
		return weather.Report{}, err
	}
	return reportAerisHourly("AerisWeather - "+aerisWording(hours), periods), nil
}

func (p *AerisWeatherProvider) daily(ctx context.Context, location string, offset weather.DateOffset) (weather.Report, error) {
	from := offset.Resolve(p.opts.Clock()).UTC().Format("2006/01/02")
	p.opts.Logger.Debug("aerisweather: daily branch", zap.String("location", location), zap.String("from", from))

	q := p.query()
	q.Set("from", from)

	body, err := p.http.get(ctx, request{
		phase:      "daily summary request",
		path:       "/conditions/summary/{location}",
		pathParams: map[string]string{"location": location},
		query:      q,
	})
	if err != nil {
		return weather.Report{}, err
	}

	periods, err := decodeAeris[aerisDailyPeriod]("daily summary response", body)
	if err != nil {
		return weather.Report{}, err
	}
	return reportAerisDaily("AerisWeather - "+aerisWording(offset.Amount()), periods), nil
}

// relativeHours formats an hour offset as an Aeris relative time. Negative
// numbers already carry their sign.
func relativeHours(h int) string {
	if h > 0 {
		return fmt.Sprintf("+%dhours", h)
	}
	return fmt.Sprintf("%dhours", h)
}

func aerisWording(amount int) string {
	switch {
	case amount > 0:
		return "forecast"
	case amount < 0:
		return "history"
	default:
		return "current"
	}
}

type aerisError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// aerisEnvelope wraps every Aeris payload; periods are grouped per matched place.
type aerisEnvelope[P any] struct {
	Success  bool        `json:"success"`
	Error    *aerisError `json:"error"`
	Response []struct {
		Periods []P `json:"periods" validate:"required,dive"`
	} `json:"response" validate:"required_if=Success true,dive"`
}

func decodeAeris[P any](kind string, body []byte) ([]P, error) {
	var env aerisEnvelope[P]
	if err := decode(kind, body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		desc := "unknown error"
		if env.Error != nil {
			desc = fmt.Sprintf("%s: %s", env.Error.Code, env.Error.Description)
		}
		return nil, fmt.Errorf("%w: AerisWeather %s: %s", weather.ErrProviderResponse, kind, desc)
	}

	var periods []P
	for _, r := range env.Response {
		periods = append(periods, r.Periods...)
	}
	return periods, nil
}

type aerisHourlyPeriod struct {
	Timestamp int64    `json:"timestamp" validate:"required"`
	TempC     *float64 `json:"tempC" validate:"required"`
	TempF     *float64 `json:"tempF" validate:"required"`
	WindDir   string   `json:"windDir" validate:"required"`
	Weather   string   `json:"weather" validate:"required"`
	Humidity  *float64 `json:"humidity" validate:"required"`
}

type aerisDailyPeriod struct {
	Timestamp int64 `json:"timestamp" validate:"required"`
	Temp      *struct {
		AvgC *float64 `json:"avgC" validate:"required"`
		AvgF *float64 `json:"avgF" validate:"required"`
		MinC *float64 `json:"minC" validate:"required"`
		MaxC *float64 `json:"maxC" validate:"required"`
		MinF *float64 `json:"minF" validate:"required"`
		MaxF *float64 `json:"maxF" validate:"required"`
	} `json:"temp" validate:"required"`
	Weather *struct {
		Phrase string `json:"phrase" validate:"required"`
	} `json:"weather" validate:"required"`
	Humidity *struct {
		Avg *float64 `json:"avg" validate:"required"`
	} `json:"humidity" validate:"required"`
	WindSpeed *struct {
		MaxDir string `json:"maxDir" validate:"required"`
	} `json:"windSpeed" validate:"required"`
}

func reportAerisHourly(title string, periods []aerisHourlyPeriod) weather.Report {
	r := weather.NewReport(title)
	for _, p := range periods {
		s := weather.NewSection(epoch(p.Timestamp).Format(hourlyLayout))
		s.Add("Condition", p.Weather).
			Add("Temperature, C", degrees(*p.TempC)).
			Add("Temperature, F", degrees(*p.TempF)).
			Add("Humidity", percent(*p.Humidity)).
			Add("Wind direction", p.WindDir)
		r.AddSection(s)
	}
	return r
}

func reportAerisDaily(title string, periods []aerisDailyPeriod) weather.Report {
	r := weather.NewReport(title)
	for _, p := range periods {
		s := weather.NewSection(epoch(p.Timestamp).Format(dailyLayout))
		s.Add("Condition", p.Weather.Phrase).
			Add("Average temp., C", degrees(*p.Temp.AvgC)).
			Add("Average temp., F", degrees(*p.Temp.AvgF)).
			Add("Min. temp., C", degrees(*p.Temp.MinC)).
			Add("Max. temp., C", degrees(*p.Temp.MaxC)).
			Add("Min. temp., F", degrees(*p.Temp.MinF)).
			Add("Max. temp., F", degrees(*p.Temp.MaxF)).
			Add("Average humidity", percent(*p.Humidity.Avg)).
			Add("Wind direction", p.WindSpeed.MaxDir)
		r.AddSection(s)
	}
	return r
}
