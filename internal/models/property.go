package models

// PropertyRecord holds the characteristics scraped from a single listing
// page. Numeric fields default to zero when the page yields no match;
// coordinates are set only when both latitude and longitude were found.
type PropertyRecord struct {
	Address   string   `json:"address"`
	Beds      int      `json:"beds"`
	Baths     float64  `json:"baths"`
	SqFt      int      `json:"sq_ft"`
	LotSqFt   int      `json:"lot_sq_ft"`
	YearBuilt int      `json:"year_built"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the record carries a usable location.
func (p PropertyRecord) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// ComparableRecord is one recently-sold result card. SoldDate stays the
// free text shown on the card; SoldPrice is zero when the card had none.
type ComparableRecord struct {
	Address   string  `json:"address"`
	Beds      int     `json:"beds"`
	Baths     float64 `json:"baths"`
	SqFt      int     `json:"sq_ft"`
	SoldDate  string  `json:"sold_date"`
	SoldPrice int     `json:"sold_price"`
}

// ComparableSet preserves the order the cards appeared on the results page.
type ComparableSet []ComparableRecord

// Report is everything one calculation produced, in the shape both the
// HTTP handler and the CLI render.
type Report struct {
	Target   PropertyRecord `json:"target"`
	Comps    ComparableSet  `json:"comps"`
	Estimate float64        `json:"estimate"`
	Warnings []string       `json:"warnings,omitempty"`
}
