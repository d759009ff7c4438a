package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"arv-estimator/internal/models"
)

// FieldExtractor pulls one field's raw text out of page content. One
// implementation exists per field so a markup change on the site touches
// exactly one pattern.
type FieldExtractor interface {
	Extract(content string) (string, bool)
}

type patternExtractor struct {
	re *regexp.Regexp
}

// Pattern builds a FieldExtractor from a regexp with one capture group;
// the first match wins.
func Pattern(expr string) FieldExtractor {
	return &patternExtractor{re: regexp.MustCompile(expr)}
}

func (p *patternExtractor) Extract(content string) (string, bool) {
	m := p.re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// The listing-page patterns. These are tuned to the site's current markup;
// coordinates come from the embedded JSON fragments rather than a
// structural parse.
var (
	bedsField  = Pattern(`(\d+(?:\.\d+)?)\s*bd`)
	bathsField = Pattern(`(\d+(?:\.\d+)?)\s*ba`)
	sqftField  = Pattern(`(\d+(?:,\d{3})*)\s*sqft`)
	lotField   = Pattern(`lot:\s*(\d+(?:,\d{3})*)`)
	yearField  = Pattern(`built\s*(\d{4})`)
	latField   = Pattern(`"latitude":\s*([\d.-]+)`)
	lonField   = Pattern(`"longitude":\s*([\d.-]+)`)
)

// ExtractProperty parses a listing page into a PropertyRecord. Fields
// whose pattern finds no match keep their zero value; the returned
// warnings are non-fatal and the record is always usable.
func ExtractProperty(address, content string) (models.PropertyRecord, []string) {
	record := models.PropertyRecord{Address: address}
	if content == "" {
		return record, nil
	}

	record.Beds = extractInt(bedsField, content)
	record.Baths = extractFloat(bathsField, content)
	record.SqFt = extractInt(sqftField, content)
	record.LotSqFt = extractInt(lotField, content)
	record.YearBuilt = extractInt(yearField, content)

	latRaw, latOK := latField.Extract(content)
	lonRaw, lonOK := lonField.Extract(content)
	if latOK && lonOK {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lon, lonErr := strconv.ParseFloat(lonRaw, 64)
		if latErr == nil && lonErr == nil {
			record.Latitude = &lat
			record.Longitude = &lon
		}
	}

	var warnings []string
	if record.Beds == 0 || record.Baths == 0 || record.SqFt == 0 {
		warnings = append(warnings, "partial details fetched; some fields may be missing")
	}
	return record, warnings
}

func extractInt(f FieldExtractor, content string) int {
	raw, ok := f.Extract(content)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v < 0 {
		return 0
	}
	return int(v)
}

func extractFloat(f FieldExtractor, content string) float64 {
	raw, ok := f.Extract(content)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
