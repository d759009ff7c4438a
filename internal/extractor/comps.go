package extractor

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"arv-estimator/internal/models"
)

// Similarity tolerances for the post-fetch filter. These are applied on
// top of the ranges already encoded in the search URL.
const (
	bedsTolerance  = 1
	bathsTolerance = 1.0
	sqftTolerance  = 0.2
	lotTolerance   = 0.2
	yearTolerance  = 10
	boundsDelta    = 0.01 // degrees, roughly half a mile
)

var (
	cardIDPattern   = regexp.MustCompile(`^zpid_\d+$`)
	cardSqftField   = Pattern(`(\d+(?:,\d{3})*)\s*sqft`)
	soldPriceField  = Pattern(`Sold:\s*\$([\d,]+)`)
	leadingNumField = Pattern(`^(\d+(?:\.\d+)?)`)
)

// SearchURL builds the recently-sold search query for the area around the
// target: a ±0.01 degree bounding box plus the target's characteristic
// ranges in the searchQueryState parameter the site understands.
func SearchURL(baseURL string, target models.PropertyRecord) string {
	lat := *target.Latitude
	lon := *target.Longitude

	state := map[string]any{
		"pagination":      map[string]any{},
		"isMapVisible":    true,
		"isListVisible":   true,
		"usersSearchTerm": target.Address,
		"mapBounds": map[string]any{
			"west":  lon - boundsDelta,
			"east":  lon + boundsDelta,
			"south": lat - boundsDelta,
			"north": lat + boundsDelta,
		},
		"filterState": map[string]any{
			"sort": map[string]any{"value": "globalrelevanceex"},
			"ah":   map[string]any{"value": true},
			"sold": map[string]any{"value": true},
			"rs":   map[string]any{"value": true},
			"fsba": map[string]any{"value": false},
			"fsbo": map[string]any{"value": false},
			"nc":   map[string]any{"value": false},
			"auc":  map[string]any{"value": false},
			"fore": map[string]any{"value": false},
			"bd":   map[string]any{"value": strconv.Itoa(target.Beds)},
			"ba":   map[string]any{"value": strconv.FormatFloat(target.Baths, 'f', -1, 64)},
			"sqft": map[string]any{"value": pctRange(target.SqFt, sqftTolerance)},
			"lot":  map[string]any{"value": pctRange(target.LotSqFt, lotTolerance)},
			"yb":   map[string]any{"value": fmt.Sprintf("%d-%d", target.YearBuilt-yearTolerance, target.YearBuilt+yearTolerance)},
		},
	}

	encoded, _ := json.Marshal(state)
	params := url.Values{}
	params.Set("searchQueryState", string(encoded))

	return fmt.Sprintf("%s/homes/%f,%f_rb/?%s", baseURL, lat, lon, params.Encode())
}

// ExtractComps walks every result card in the search page and keeps the
// ones similar to the target: beds and baths within 1, square footage
// within 20%, sold-date text carrying a year token inside the recency
// window. Cards come back in page order.
func ExtractComps(content string, target models.PropertyRecord, years []string) models.ComparableSet {
	comps := models.ComparableSet{}
	if content == "" {
		return comps
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return comps
	}

	doc.Find("article").Each(func(_ int, card *goquery.Selection) {
		id, _ := card.Attr("id")
		if !cardIDPattern.MatchString(id) {
			return
		}

		cardText := card.Text()
		comp := models.ComparableRecord{
			Address:   strings.TrimSpace(card.Find("address").First().Text()),
			Beds:      int(firstNumber(card.Find(`span[data-test="property-beds"]`).First().Text())),
			Baths:     firstNumber(card.Find(`span[data-test="property-baths"]`).First().Text()),
			SqFt:      extractInt(cardSqftField, cardText),
			SoldPrice: extractInt(soldPriceField, cardText),
			SoldDate:  strings.TrimSpace(card.Find(`span[data-test="listing-card-sold-date"]`).First().Text()),
		}

		if similar(comp, target) && soldRecently(comp.SoldDate, years) {
			comps = append(comps, comp)
		}
	})

	return comps
}

// RecencyYears lists every calendar-year token intersecting the window
// [now - days, now]. The sold-date filter matches these as substrings of
// the card's free-text date.
func RecencyYears(now time.Time, days int) []string {
	start := now.AddDate(0, 0, -days)
	var years []string
	for y := start.Year(); y <= now.Year(); y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

func similar(comp models.ComparableRecord, target models.PropertyRecord) bool {
	if abs(comp.Beds-target.Beds) > bedsTolerance {
		return false
	}
	if math.Abs(comp.Baths-target.Baths) > bathsTolerance {
		return false
	}
	lo := (1 - sqftTolerance) * float64(target.SqFt)
	hi := (1 + sqftTolerance) * float64(target.SqFt)
	return float64(comp.SqFt) >= lo && float64(comp.SqFt) <= hi
}

func soldRecently(soldDate string, years []string) bool {
	if soldDate == "" {
		return false
	}
	for _, y := range years {
		if strings.Contains(soldDate, y) {
			return true
		}
	}
	return false
}

// firstNumber parses the leading numeric token of strings like "3 bds".
func firstNumber(s string) float64 {
	raw, ok := leadingNumField.Extract(strings.TrimSpace(s))
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func pctRange(v int, tol float64) string {
	lo := float64(v) * (1 - tol)
	hi := float64(v) * (1 + tol)
	return fmt.Sprintf("%.0f-%.0f", lo, hi)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
