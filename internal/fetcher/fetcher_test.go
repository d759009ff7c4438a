package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestFetcher(slept *[]time.Duration) *Fetcher {
	f := New(5*time.Second, 2*time.Second, zerolog.Nop())
	f.sleep = func(d time.Duration) {
		*slept = append(*slept, d)
	}
	return f
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "success returns body",
			status:   http.StatusOK,
			body:     "<html>listing</html>",
			expected: "<html>listing</html>",
		},
		{
			name:     "not found returns empty",
			status:   http.StatusNotFound,
			body:     "missing",
			expected: "",
		},
		{
			name:     "rate limited returns empty",
			status:   http.StatusTooManyRequests,
			body:     "blocked",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var slept []time.Duration
			f := newTestFetcher(&slept)

			got := f.Fetch(context.Background(), srv.URL)

			assert.Equal(t, tt.expected, got)
			assert.Contains(t, defaultUserAgents, gotUA)
			assert.Equal(t, []time.Duration{2 * time.Second}, slept, "exactly one fixed delay per request")
		})
	}
}

func TestFetcher_Fetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	var slept []time.Duration
	f := newTestFetcher(&slept)

	assert.Equal(t, "", f.Fetch(context.Background(), srv.URL))
}

func TestFetcher_PickUserAgent_Deterministic(t *testing.T) {
	var slept []time.Duration
	f := newTestFetcher(&slept)

	url := "https://example.com/homedetails/100-Main-St"
	first := f.pickUserAgent(url)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.pickUserAgent(url))
	}
	assert.Contains(t, defaultUserAgents, first)
}
