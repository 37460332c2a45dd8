package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func newTestWeatherAPI(u *upstream) *WeatherAPIProvider {
	return NewWeatherAPIProvider(WeatherAPIConfig{Options: u.options(), APIKey: "22222"})
}

func TestWeatherAPICurrent(t *testing.T) {
	u := newUpstream(t)
	u.handle("/v1/current.json", http.StatusOK, fixture(t, "weatherapi_current.json"))

	report, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Zaporizhzhia"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := u.recorded()
	if len(calls) != 1 || calls[0].Path != "/v1/current.json" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	expectQuery(t, calls[0], map[string]string{"key": "22222", "q": "Zaporizhzhia", "aqi": "no"})

	if report.Title != "WeatherAPI - current" {
		t.Errorf("Title = %q", report.Title)
	}
	if len(report.Sections) != 1 {
		t.Fatalf("got %d sections; want 1", len(report.Sections))
	}
	s := report.Sections[0]
	if s.Title != "12/12/2022 11:00 AM (UTC)" {
		t.Errorf("section title = %q", s.Title)
	}
	if s.Fields[0] != (weather.Field{Label: "Condition", Value: "Overcast"}) {
		t.Errorf("first field = %+v; want Condition/Overcast", s.Fields[0])
	}
	expectFields(t, s, []weather.Field{
		{Label: "Condition", Value: "Overcast"},
		{Label: "Temperature, C", Value: "7.5°"},
		{Label: "Temperature, F", Value: "45.5°"},
		{Label: "Humidity", Value: "81%"},
		{Label: "Wind direction", Value: "SSE"},
		{Label: "Wind speed km/h", Value: "23.4"},
		{Label: "Wind speed mi/h", Value: "14.5"},
	})
}

func TestWeatherAPIForecastUsesDays(t *testing.T) {
	u := newUpstream(t)
	u.handle("/v1/forecast.json", http.StatusOK, fixture(t, "weatherapi_forecast.json"))

	report, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Zaporizhzhia", Date: weather.Days(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := u.recorded()
	if len(calls) != 1 || calls[0].Path != "/v1/forecast.json" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	expectQuery(t, calls[0], map[string]string{"key": "22222", "q": "Zaporizhzhia", "days": "3", "alerts": "no"})
	if calls[0].Query.Has("dt") {
		t.Error("forecast request must not carry dt")
	}

	if report.Title != "WeatherAPI - forecast" {
		t.Errorf("Title = %q", report.Title)
	}
	if len(report.Sections) != 2 {
		t.Fatalf("got %d sections; want 2", len(report.Sections))
	}
	if report.Sections[0].Title != "12/12/2022" || report.Sections[1].Title != "13/12/2022" {
		t.Errorf("section titles = %q, %q", report.Sections[0].Title, report.Sections[1].Title)
	}
	expectFields(t, report.Sections[0], []weather.Field{
		{Label: "Condition", Value: "Patchy rain possible"},
		{Label: "Minimum temp., C", Value: "3.2°"},
		{Label: "Maximum temp., C", Value: "8.1°"},
		{Label: "Minimum temp., F", Value: "37.8°"},
		{Label: "Maximum temp., F", Value: "46.6°"},
		{Label: "Average humidity", Value: "50%"},
		{Label: "Maximum wind km/h", Value: "27.4"},
		{Label: "Maximum wind mi/h", Value: "17"},
	})
}

func TestWeatherAPIHistoryUsesResolvedDate(t *testing.T) {
	tests := []struct {
		name   string
		offset weather.DateOffset
		dt     string
	}{
		{"five days ago", weather.Days(-5), "2022-12-07"},
		{"today", weather.Days(0), "2022-12-12"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := newUpstream(t)
			u.handle("/v1/history.json", http.StatusOK, fixture(t, "weatherapi_history.json"))

			report, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Zaporizhzhia", Date: tc.offset})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := u.recorded()
			if len(calls) != 1 || calls[0].Path != "/v1/history.json" {
				t.Fatalf("unexpected calls: %+v", calls)
			}
			want := tc.offset.Resolve(fixedNow).Format("2006-01-02")
			if want != tc.dt {
				t.Fatalf("test setup: resolved %s; want %s", want, tc.dt)
			}
			expectQuery(t, calls[0], map[string]string{"dt": tc.dt, "key": "22222"})
			if calls[0].Query.Has("days") {
				t.Error("history request must not carry days")
			}

			if report.Title != "WeatherAPI - history" {
				t.Errorf("Title = %q", report.Title)
			}
			if len(report.Sections) != 1 || report.Sections[0].Title != "07/12/2022" {
				t.Errorf("unexpected sections: %+v", report.Sections)
			}
		})
	}
}

func TestWeatherAPIHourlyUnsupported(t *testing.T) {
	u := newUpstream(t)

	_, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Kyiv", Date: weather.Hours(-3)})
	if !errors.Is(err, weather.ErrUnsupported) {
		t.Fatalf("error = %v; want ErrUnsupported", err)
	}
	if !strings.Contains(err.Error(), "hourly offsets are not supported") {
		t.Errorf("error = %q", err)
	}
	if calls := u.recorded(); len(calls) != 0 {
		t.Errorf("no request expected, got %+v", calls)
	}
}

func TestWeatherAPIDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"missing current", `{"location":{"name":"Kyiv"}}`},
		{"missing condition", `{"location":{"name":"Kyiv"},"current":{"last_updated_epoch":1670842800,"wind_dir":"N"}}`},
		{"wrong type", `{"location":{"name":"Kyiv"},"current":"sunny"}`},
		{"missing numbers", `{"location":{"name":"Kyiv"},"current":{"last_updated_epoch":1670842800,"wind_dir":"N","condition":{"text":"Overcast"}}}`},
		{"missing humidity", `{"location":{"name":"Kyiv"},"current":{"last_updated_epoch":1670842800,"temp_c":0,"temp_f":32,"wind_kph":0,"wind_mph":0,"wind_dir":"N","condition":{"text":"Fog"}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := newUpstream(t)
			u.handle("/v1/current.json", http.StatusOK, tc.body)

			_, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Kyiv"})
			if !errors.Is(err, weather.ErrDecode) {
				t.Fatalf("error = %v; want ErrDecode", err)
			}
			if !strings.Contains(err.Error(), "current weather response") {
				t.Errorf("error %q does not name the response kind", err)
			}
		})
	}
}

func TestWeatherAPITransportErrors(t *testing.T) {
	t.Run("bad request", func(t *testing.T) {
		u := newUpstream(t)
		u.handle("/v1/forecast.json", http.StatusBadRequest, `{"error":{"code":1006,"message":"No matching location found."}}`)

		_, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Nowhere", Date: weather.Days(2)})
		if !errors.Is(err, weather.ErrTransport) {
			t.Fatalf("error = %v; want ErrTransport", err)
		}
		if !strings.Contains(err.Error(), "forecast request failed") || !strings.Contains(err.Error(), "No matching location found.") {
			t.Errorf("error = %q", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		u := newUpstream(t)
		u.handle("/v1/current.json", http.StatusBadGateway, "")

		_, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Kyiv"})
		if !errors.Is(err, weather.ErrTransport) || !errors.Is(err, errServerError) {
			t.Fatalf("error = %v; want ErrTransport wrapping errServerError", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		u := newUpstream(t)
		p := newTestWeatherAPI(u)
		u.Close()

		_, err := p.Run(context.Background(), weather.Command{Location: "Kyiv"})
		if !errors.Is(err, weather.ErrTransport) {
			t.Fatalf("error = %v; want ErrTransport", err)
		}
	})
}

func TestWeatherAPIForecastRequiresDayNumbers(t *testing.T) {
	u := newUpstream(t)
	u.handle("/v1/forecast.json", http.StatusOK, `{"location":{"name":"Kyiv"},"forecast":{"forecastday":[{"date_epoch":1670803200,"day":{"condition":{"text":"Sunny"}}}]}}`)

	_, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Kyiv", Date: weather.Days(1)})
	if !errors.Is(err, weather.ErrDecode) {
		t.Fatalf("error = %v; want ErrDecode", err)
	}
}

func TestWeatherAPIZeroValuesAreKept(t *testing.T) {
	u := newUpstream(t)
	u.handle("/v1/current.json", http.StatusOK, `{"location":{"name":"Oymyakon"},"current":{"last_updated_epoch":1670842800,"temp_c":0,"temp_f":32,"wind_kph":0,"wind_mph":0,"humidity":0,"wind_dir":"N","condition":{"text":"Clear"}}}`)

	report, err := newTestWeatherAPI(u).Run(context.Background(), weather.Command{Location: "Oymyakon"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectFields(t, report.Sections[0], []weather.Field{
		{Label: "Condition", Value: "Clear"},
		{Label: "Temperature, C", Value: "0°"},
		{Label: "Temperature, F", Value: "32°"},
		{Label: "Humidity", Value: "0%"},
		{Label: "Wind direction", Value: "N"},
		{Label: "Wind speed km/h", Value: "0"},
		{Label: "Wind speed mi/h", Value: "0"},
	})
}
