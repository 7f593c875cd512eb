package domain

import (
	"fmt"
	"time"
)

// RawOpportunity is one row of the input CSV exactly as read, before any
// cleaning. All fields are kept as strings so the cleaner owns every
// coercion decision.
type RawOpportunity struct {
	OpportunityID string `json:"opportunity_id"`
	CompanyID     string `json:"company_id"`
	OwnerID       string `json:"owner_id"`
	Zone          string `json:"zone"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	CloseDate     string `json:"close_date"`
	CloseYear     string `json:"close_year"`
	Participants  string `json:"participants"`
}

// Opportunity is one cleaned and enriched sales-opportunity record.
// It is built by the cleaner, mutated in place by the normalizer and the
// column generator, and read-only from aggregation onwards.
type Opportunity struct {
	OpportunityID    string      `json:"opportunity_id" validate:"required"`
	FolioOpportunity string      `json:"folio_opportunity"`
	CompanyID        string      `json:"company_id" validate:"required"`
	FolioCompany     string      `json:"folio_company"`
	OwnerID          string      `json:"owner_id" validate:"required"`
	FolioOwner       string      `json:"folio_owner"`
	Zone             string      `json:"zone" validate:"required"`
	ZoneRating       ZoneRating  `json:"zone_rating"`
	Currency         string      `json:"currency" validate:"len=3"`
	Amount           float64     `json:"amount" validate:"min=0"`
	AmountMXN        float64     `json:"amount_mxn"`
	AmountUSD        float64     `json:"amount_usd"`
	AmountEUR        float64     `json:"amount_eur"`
	AmountRange      AmountRange `json:"amount_range"`
	Classification   string      `json:"classification"`
	CloseDate        time.Time   `json:"close_date"`
	CloseYear        int         `json:"close_year"`
	CloseMonth       int         `json:"close_month"`
	CloseQuarter     int         `json:"close_quarter"`
	Participants     int         `json:"participants" validate:"min=0"`
}

// AmountRange is the categorical amount bucket. Boundaries are closed on the
// lower end and open on the upper end; the top bucket is unbounded above.
type AmountRange string

const (
	AmountRangeBajo    AmountRange = "Bajo"
	AmountRangeMedio   AmountRange = "Medio"
	AmountRangeAlto    AmountRange = "Alto"
	AmountRangeMuyAlto AmountRange = "MuyAlto"
)

// ZoneRating marks whether a zone is among the top revenue zones.
type ZoneRating string

const (
	ZoneRatingKey   ZoneRating = "Importante"
	ZoneRatingOther ZoneRating = "Otras"
)

// Dimension is a grouping axis for aggregation.
type Dimension string

const (
	DimensionZone    Dimension = "zone"
	DimensionCompany Dimension = "company"
	DimensionOwner   Dimension = "owner"
)

// Dimensions lists all grouping axes in output order.
var Dimensions = []Dimension{DimensionZone, DimensionCompany, DimensionOwner}

// ValueOf returns the record's value on this dimension. Company and owner
// group by folio so the output matches the synthetic identifiers on the
// base sheet.
func (d Dimension) ValueOf(o Opportunity) string {
	switch d {
	case DimensionZone:
		return o.Zone
	case DimensionCompany:
		return o.FolioCompany
	case DimensionOwner:
		return o.FolioOwner
	}
	return ""
}

// GroupTotal is the summed normalized amount for one (dimension value, year).
type GroupTotal struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Year      int       `json:"year"`
	Amount    float64   `json:"amount"`
}

// Growth is the year-over-year growth result for one group. Undefined marks
// the zero-base case (2023 total is zero, 2024 total is positive); callers
// must check it before using Percent.
type Growth struct {
	Percent   float64 `json:"percent"`
	Undefined bool    `json:"undefined"`
}

// GrowthUndefined is the sentinel for growth on a zero base.
var GrowthUndefined = Growth{Undefined: true}

// GrowthOf returns a defined growth value.
func GrowthOf(percent float64) Growth {
	return Growth{Percent: percent}
}

// String renders the growth for human-readable output. The undefined case
// never looks like a number.
func (g Growth) String() string {
	if g.Undefined {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", g.Percent)
}

// GrowthRow is one output row of a growth sheet.
type GrowthRow struct {
	Value      string  `json:"value"`
	Amount2023 float64 `json:"amount_2023"`
	Amount2024 float64 `json:"amount_2024"`
	Growth     Growth  `json:"growth"`
}

// DensityRow is one output row of a revenue-density sheet: total normalized
// amount, opportunity count and revenue per opportunity for one dimension
// value. Tercile is only set on the owner dimension, where owners are ranked
// into equal-frequency thirds by total revenue.
type DensityRow struct {
	Value   string  `json:"value"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
	Tercile string  `json:"tercile,omitempty"`
}

// Tercile labels for the owner revenue ranking, lowest third first.
const (
	TercileLow = "Bajo"
	TercileMid = "Medio"
	TercileTop = "Top"
)
