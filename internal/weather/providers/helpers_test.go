package providers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// fixedNow is the origin used by every provider test.
var fixedNow = time.Date(2022, 12, 12, 11, 0, 0, 0, time.UTC)

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(b)
}

type call struct {
	Path  string
	Query url.Values
}

// upstream is a fake provider API answering each path with a canned body.
type upstream struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []call
	routes map[string]route
}

type route struct {
	status int
	body   string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{routes: make(map[string]route)}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.calls = append(u.calls, call{Path: r.URL.Path, Query: r.URL.Query()})
		rt, ok := u.routes[r.URL.Path]
		u.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) handle(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[path] = route{status: status, body: body}
}

func (u *upstream) recorded() []call {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]call, len(u.calls))
	copy(out, u.calls)
	return out
}

func (u *upstream) options() Options {
	return Options{
		BaseURL: u.URL,
		Timeout: 2 * time.Second,
		Clock:   func() time.Time { return fixedNow },
	}
}

func expectQuery(t *testing.T, c call, want map[string]string) {
	t.Helper()
	for k, v := range want {
		if got := c.Query.Get(k); got != v {
			t.Errorf("%s: query %s = %q; want %q", c.Path, k, got, v)
		}
	}
}

func expectFields(t *testing.T, s weather.Section, want []weather.Field) {
	t.Helper()
	if len(s.Fields) != len(want) {
		t.Fatalf("section %q has %d fields; want %d: %+v", s.Title, len(s.Fields), len(want), s.Fields)
	}
	for i := range want {
		if s.Fields[i] != want[i] {
			t.Errorf("section %q field %d = %+v; want %+v", s.Title, i, s.Fields[i], want[i])
		}
	}
}
