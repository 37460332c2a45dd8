package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultTimeout = 10 * time.Second

// Timestamp layouts used in report section titles.
const (
	dailyLayout  = "02/01/2006"
	hourlyLayout = "02/01/2006 03:04 PM (UTC)"
)

// Options carries the settings shared by every provider adapter.
type Options struct {
	// BaseURL overrides the provider's public endpoint, e.g. for test doubles.
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
	// Clock is the origin used to resolve date offsets.
	Clock func() time.Time

	// circuit is shared by every adapter Registry builds for one provider.
	circuit *gobreaker.CircuitBreaker
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

var validate = validator.New()

// breakerTripAfter is the number of consecutive failed requests that opens a
// provider's circuit.
const breakerTripAfter = 5

// transport issues GET requests against one provider. Requests are never retried;
// the circuit breaker stops hammering an upstream that keeps failing within a
// long-running process (serve, watch).
type transport struct {
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func newCircuitBreaker(name weather.ProviderName) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(name),
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
	})
}

func newTransport(name weather.ProviderName, opts Options) *transport {
	cb := opts.circuit
	if cb == nil {
		cb = newCircuitBreaker(name)
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	return &transport{
		client:  client,
		circuit: cb,
		logger:  opts.Logger.With(zap.String("provider", string(name))),
	}
}

// request describes one GET call against a provider.
type request struct {
	// phase names the step in error messages, e.g. "forecast request".
	phase      string
	path       string
	pathParams map[string]string
	query      url.Values
}

// get sends the request and returns the body of a 2xx response. Failures are
// reported as weather.ErrTransport tagged with the request phase.
func (t *transport) get(ctx context.Context, r request) ([]byte, error) {
	t.logger.Debug("sending request", zap.String("phase", r.phase), zap.String("path", r.path))

	result, err := t.circuit.Execute(func() (interface{}, error) {
		resp, err := t.client.R().
			SetContext(ctx).
			SetPathParams(r.pathParams).
			SetQueryParamsFromValues(r.query).
			Get(r.path)
		if err != nil {
			return nil, err
		}

		code := resp.StatusCode()
		switch {
		case code == http.StatusTooManyRequests:
			return nil, errRateLimited
		case code >= 500:
			return nil, fmt.Errorf("%w: %d", errServerError, code)
		case code < 200 || code >= 300:
			return nil, fmt.Errorf("%w: %d: %s", errUnexpected, code, truncate(resp.String(), 200))
		}
		return resp.Body(), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		t.logger.Debug("request failed", zap.String("phase", r.phase), zap.Error(err))
		return nil, fmt.Errorf("%w: %s failed: %w", weather.ErrTransport, r.phase, err)
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s failed: unexpected result type from circuit breaker", weather.ErrTransport, r.phase)
	}
	return body, nil
}

// decode strictly parses body into v: malformed JSON or a missing required
// field fails the whole lookup.
func decode(kind string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: couldn't parse the %s: %w", weather.ErrDecode, kind, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: couldn't parse the %s: %w", weather.ErrDecode, kind, err)
	}
	return nil
}

// decodeList is decode for payloads whose top level is a JSON array.
func decodeList[T any](kind string, body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: couldn't parse the %s: %w", weather.ErrDecode, kind, err)
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return nil, fmt.Errorf("%w: couldn't parse the %s: item %d: %w", weather.ErrDecode, kind, i, err)
		}
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// number renders a float in its shortest form: 7.5, 17, -0.3.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func degrees(v float64) string {
	return number(v) + "°"
}

func percent(v float64) string {
	return number(v) + "%"
}

func epoch(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
