package dashboard

import (
	"ici_dashboard/internal/rank"
	"ici_dashboard/internal/trend"
	"ici_dashboard/models"
)

// Metric is one ranking card: the country's position on a single index in
// the latest selected year, with the change against the previous year.
type Metric struct {
	Index          models.Index `json:"index"`
	Label          string       `json:"label"`
	Color          string       `json:"color"`
	Value          *float64     `json:"value"`       // Null when the source column is null
	Rank           *int         `json:"rank"`        // Null when the country is unranked on this index
	TotalCountries int          `json:"total_countries"`
	RankDelta      *trend.Delta `json:"rank_delta"`  // Null when no previous year is in range
	ValueDelta     *trend.Delta `json:"value_delta"` // Null when the index has fewer than two values in range
}

// MetricsResponse backs the metric card row of the dashboard.
type MetricsResponse struct {
	Country      string   `json:"country"`
	LatestYear   int      `json:"latest_year"`
	PreviousYear *int     `json:"previous_year"`
	Metrics      []Metric `json:"metrics"`
}

// IndexSeries is one line of the evolution chart.
type IndexSeries struct {
	Index  models.Index `json:"index"`
	Label  string       `json:"label"`
	Color  string       `json:"color"`
	Values []*float64   `json:"values"` // Aligned to the response's years, null = missing
}

// EvolutionResponse holds one country's six series over the selected range.
type EvolutionResponse struct {
	Country string        `json:"country"`
	Years   []int         `json:"years"`
	Series  []IndexSeries `json:"series"`
}

// CountrySeries is one country's line in the comparison chart.
type CountrySeries struct {
	Country string    `json:"country"`
	Years   []int     `json:"years"`
	Values  []float64 `json:"values"`
}

// ComparisonResponse holds the aligned multi-country series for one index.
type ComparisonResponse struct {
	Index  models.Index    `json:"index"`
	Label  string          `json:"label"`
	Years  []int           `json:"years"`
	Series []CountrySeries `json:"series"`
	// NoData lists countries that were selected but have no observation in
	// range, so the UI can say so instead of dropping them silently.
	NoData []string `json:"no_data"`
}

// RadarValue is one axis of a country's radar polygon.
type RadarValue struct {
	Index models.Index `json:"index"`
	Label string       `json:"label"`
	Value *float64     `json:"value"`
}

// RadarCountry is one country's cross-section at the chosen year. Absent
// means the country has no row for that year, which is not the same as a
// zero-valued observation.
type RadarCountry struct {
	Country string       `json:"country"`
	Absent  bool         `json:"absent"`
	Values  []RadarValue `json:"values,omitempty"`
}

// RadarResponse backs the radar chart for one year.
type RadarResponse struct {
	Year      int            `json:"year"`
	Countries []RadarCountry `json:"countries"`
}

// RankingRow is one row of the full ranking table.
type RankingRow struct {
	Rank        int          `json:"rank"`
	CountryName string       `json:"country_name"`
	Value       float64      `json:"value"`
	ValueDelta  *trend.Delta `json:"value_delta"` // Null when the country has no value in the previous year
}

// RankingResponse is the full ranking table for one (year, index) pair.
type RankingResponse struct {
	Year           int          `json:"year"`
	Index          models.Index `json:"index"`
	Label          string       `json:"label"`
	TotalCountries int          `json:"total_countries"`
	Entries        []RankingRow `json:"entries"`
}

// rankPosition adapts a table lookup to the nullable JSON field.
func rankPosition(t rank.Table, country string) *int {
	r, err := t.Position(country)
	if err != nil {
		return nil
	}
	return &r
}
