package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned for every lookup failure: transport errors,
// upstream errors, and genuinely unresolvable addresses alike. Callers
// have no reason to distinguish them; the pipeline aborts either way.
var ErrNotFound = errors.New("geocoder: address not found")

// Client resolves free-text addresses against a Nominatim instance.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// nominatimResult mirrors the relevant part of the OSM search payload.
// Nominatim serializes coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Geocode resolves address to coordinates, or ErrNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Add("q", address)
	params.Add("format", "json")
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, ErrNotFound
	}
	req.Header.Set("User-Agent", "arv-estimator/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("nominatim request failed")
		return 0, 0, ErrNotFound
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("nominatim upstream error")
		return 0, 0, ErrNotFound
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.log.Error().Err(err).Msg("failed to decode nominatim payload")
		return 0, 0, ErrNotFound
	}
	if len(results) == 0 {
		return 0, 0, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, ErrNotFound
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, ErrNotFound
	}

	return lat, lon, nil
}
