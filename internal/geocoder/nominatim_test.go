package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, 5*time.Second, zerolog.Nop())
}

func TestClient_Geocode(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedLat float64
		expectedLon float64
		expectError bool
	}{
		{
			name:        "successful lookup",
			status:      http.StatusOK,
			body:        `[{"lat":"32.7555","lon":"-97.3308"}]`,
			expectedLat: 32.7555,
			expectedLon: -97.3308,
		},
		{
			name:        "no results",
			status:      http.StatusOK,
			body:        `[]`,
			expectError: true,
		},
		{
			name:        "upstream error",
			status:      http.StatusServiceUnavailable,
			body:        ``,
			expectError: true,
		},
		{
			name:        "malformed payload",
			status:      http.StatusOK,
			body:        `{"not":"a list"}`,
			expectError: true,
		},
		{
			name:        "non-numeric coordinates",
			status:      http.StatusOK,
			body:        `[{"lat":"north","lon":"west"}]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.NotEmpty(t, r.URL.Query().Get("q"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			lat, lon, err := newTestClient(srv.URL).Geocode(context.Background(), "100 Main St, Fort Worth, TX")

			if tt.expectError {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLat, lat)
			assert.Equal(t, tt.expectedLon, lon)
		})
	}
}

func TestClient_Geocode_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use, every request fails

	_, _, err := newTestClient(srv.URL).Geocode(context.Background(), "anywhere")
	assert.ErrorIs(t, err, ErrNotFound)
}
