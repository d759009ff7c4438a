package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"arv-estimator/internal/cache"
	"arv-estimator/internal/extractor"
	"arv-estimator/internal/models"
)

// ErrGeocodeFailed aborts a calculation; it is the only failure that does.
var ErrGeocodeFailed = errors.New("geocoding failed")

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (float64, float64, error)
}

// PageFetcher returns a page's content, or "" on any failure.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Options carries the pipeline tunables out of config.
type Options struct {
	SiteBaseURL string
	CacheTTL    time.Duration
	RecencyDays int
}

// ARVService runs the whole pipeline for one address: geocode, scrape the
// listing, scrape and filter comparable sales, take the median. The three
// remote lookups are memoized for the cache TTL.
type ARVService struct {
	geocoder Geocoder
	fetcher  PageFetcher
	memo     cache.Cache
	opts     Options
	now      func() time.Time
	log      zerolog.Logger
}

func NewARVService(g Geocoder, f PageFetcher, memo cache.Cache, opts Options, log zerolog.Logger) *ARVService {
	return &ARVService{
		geocoder: g,
		fetcher:  f,
		memo:     memo,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// Estimate produces the full report for one address. The target lookup
// always runs before the comp search; a geocoding failure stops
// everything else.
func (s *ARVService) Estimate(ctx context.Context, address string) (models.Report, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Report{}, fmt.Errorf("service: address cannot be empty")
	}

	coords, err := s.geocode(ctx, address)
	if err != nil {
		return models.Report{}, fmt.Errorf("service: could not resolve %q: %w", address, ErrGeocodeFailed)
	}

	lookup, err := s.lookupTarget(ctx, address)
	if err != nil {
		return models.Report{}, fmt.Errorf("service: target lookup: %w", err)
	}
	target := lookup.Record
	warnings := lookup.Warnings

	// The geocoder seeds the coordinates; page-embedded ones win when the
	// listing carried them.
	if !target.HasCoordinates() {
		lat, lon := coords.Lat, coords.Lon
		target.Latitude = &lat
		target.Longitude = &lon
	}

	comps, err := s.lookupComps(ctx, target)
	if err != nil {
		return models.Report{}, fmt.Errorf("service: comp lookup: %w", err)
	}
	warnings = append(warnings, comps.Warnings...)

	report := models.Report{
		Target:   target,
		Comps:    comps.Comps,
		Estimate: Median(comps.Comps),
		Warnings: warnings,
	}
	s.log.Info().
		Str("address", address).
		Int("comps", len(report.Comps)).
		Float64("estimate", report.Estimate).
		Msg("arv calculated")
	return report, nil
}

// Median is the estimator: middle sold price over comps that carried one,
// mean of the middle pair on even counts, zero when nothing qualifies.
func Median(comps models.ComparableSet) float64 {
	var prices []int
	for _, c := range comps {
		if c.SoldPrice > 0 {
			prices = append(prices, c.SoldPrice)
		}
	}
	if len(prices) == 0 {
		return 0
	}

	sort.Ints(prices)
	n := len(prices)
	if n%2 == 1 {
		return float64(prices[n/2])
	}
	return float64(prices[n/2-1]+prices[n/2]) / 2
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type targetLookup struct {
	Record   models.PropertyRecord `json:"record"`
	Warnings []string              `json:"warnings,omitempty"`
}

type compLookup struct {
	Comps    models.ComparableSet `json:"comps"`
	Warnings []string             `json:"warnings,omitempty"`
}

func (s *ARVService) geocode(ctx context.Context, address string) (coordinates, error) {
	return cache.GetOrCompute(ctx, s.memo, "geocode:"+address, s.opts.CacheTTL, func() (coordinates, error) {
		lat, lon, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			return coordinates{}, err
		}
		return coordinates{Lat: lat, Lon: lon}, nil
	})
}

func (s *ARVService) lookupTarget(ctx context.Context, address string) (targetLookup, error) {
	return cache.GetOrCompute(ctx, s.memo, "property:"+address, s.opts.CacheTTL, func() (targetLookup, error) {
		pageURL := s.opts.SiteBaseURL + "/homedetails/" + url.PathEscape(address)
		content := s.fetcher.Fetch(ctx, pageURL)
		if content == "" {
			return targetLookup{
				Record:   models.PropertyRecord{Address: address},
				Warnings: []string{"failed to fetch the listing page"},
			}, nil
		}

		record, warnings := extractor.ExtractProperty(address, content)
		return targetLookup{Record: record, Warnings: warnings}, nil
	})
}

func (s *ARVService) lookupComps(ctx context.Context, target models.PropertyRecord) (compLookup, error) {
	key := fmt.Sprintf("comps:%.6f:%.6f:%d:%s:%d:%d:%d",
		*target.Latitude, *target.Longitude,
		target.Beds, strconv.FormatFloat(target.Baths, 'f', -1, 64),
		target.SqFt, target.LotSqFt, target.YearBuilt)

	return cache.GetOrCompute(ctx, s.memo, key, s.opts.CacheTTL, func() (compLookup, error) {
		content := s.fetcher.Fetch(ctx, extractor.SearchURL(s.opts.SiteBaseURL, target))
		if content == "" {
			return compLookup{
				Comps:    models.ComparableSet{},
				Warnings: []string{"failed to fetch comparable sales"},
			}, nil
		}

		years := extractor.RecencyYears(s.now(), s.opts.RecencyDays)
		comps := extractor.ExtractComps(content, target, years)
		if len(comps) == 0 {
			return compLookup{
				Comps:    comps,
				Warnings: []string{"no matching comps found; try a broader area"},
			}, nil
		}
		return compLookup{Comps: comps}, nil
	})
}
