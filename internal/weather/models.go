package weather

import (
	"time"
)

// Mode selects which upstream series a request targets.
type Mode string

const (
	ModeHistorical Mode = "historical"
	ModeForecast   Mode = "forecast"
)

// DateLayout is the calendar-date format used on the wire and in query strings.
const DateLayout = "2006-01-02"

// Location is a place name resolved to coordinates.
// Name is the caller's input verbatim; Country and Timezone are informational
// and may be empty depending on the geocoding backend.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// DateRange is an inclusive range of calendar days. End >= Start is expected
// but not enforced here; the archive service rejects invalid ranges itself.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultRange returns the last seven days up to and including now's date.
func DefaultRange(now time.Time) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: today.AddDate(0, 0, -7),
		End:   today,
	}
}

// DailyRecord is one calendar day as returned by the weather provider.
// Any numeric field may be nil when the provider has no value for that day.
type DailyRecord struct {
	Date       time.Time `json:"date"`
	MaxTempC   *float64  `json:"maxTempC"`
	MinTempC   *float64  `json:"minTempC"`
	RainfallMM *float64  `json:"rainfallMm"`
	MaxWindKPH *float64  `json:"maxWindKph"`
}

// EnrichedRecord is a DailyRecord plus the derived columns.
type EnrichedRecord struct {
	DailyRecord

	AvgTempC *float64 `json:"avgTempC"`
	// MovingAvgC is only populated for historical series, from the third record on.
	MovingAvgC *float64 `json:"movingAvgC,omitempty"`
}

// EnrichedSeries is an ordered daily series with derived columns.
// Records keep the provider's order.
type EnrichedSeries struct {
	Mode     Mode             `json:"mode"`
	Location Location         `json:"location"`
	Timezone string           `json:"timezone,omitempty"`
	Records  []EnrichedRecord `json:"records"`
}

// SummaryStats is the reduction of a series used for the dashboard tiles.
// A nil field means no record carried a value for it.
type SummaryStats struct {
	Days            int      `json:"days"`
	MeanAvgTempC    *float64 `json:"meanAvgTempC"`
	MaxTempC        *float64 `json:"maxTempC"`
	TotalRainfallMM *float64 `json:"totalRainfallMm"`
	MaxWindKPH      *float64 `json:"maxWindKph"`
}

// Request carries everything a dashboard invocation needs.
type Request struct {
	Place string
	Range DateRange
}

// Section is the outcome of one mode of a dashboard invocation.
type Section struct {
	Series  *EnrichedSeries `json:"series,omitempty"`
	Summary *SummaryStats   `json:"summary,omitempty"`
	Err     error           `json:"-"`
	Error   string          `json:"error,omitempty"`
}

// Report is the full pipeline output handed to a renderer.
type Report struct {
	Location   Location  `json:"location"`
	Range      DateRange `json:"range"`
	Historical Section   `json:"historical"`
	Forecast   Section   `json:"forecast"`
}
