// Package trend computes year-over-year deltas for ranks and index values.
package trend

// Classification is the UI-facing reading of a delta. It is attached to
// every delta so presentation never has to re-derive which sign means
// improvement: value deltas improve upward, rank deltas improve downward.
type Classification string

const (
	Improved  Classification = "improved"
	Worsened  Classification = "worsened"
	Unchanged Classification = "unchanged"
)

// Point is one step of a per-country series, ordered by year ascending.
type Point struct {
	Year  int
	Value float64
}

// Delta is a signed change between two time-adjacent metrics plus its
// classification. Unchanged means exactly zero; the source values are
// already rounded, so no epsilon is applied.
type Delta struct {
	Value          float64        `json:"value"`
	Classification Classification `json:"classification"`
}

// LastPair returns the two most recent points of a year-ascending series.
// ok is false when the series has fewer than two points; in that case no
// delta exists and callers must render "no comparison available" rather
// than zero.
func LastPair(series []Point) (current, previous Point, ok bool) {
	if len(series) < 2 {
		return Point{}, Point{}, false
	}
	return series[len(series)-1], series[len(series)-2], true
}

// ValueDelta compares two index values. Positive = improved.
func ValueDelta(current, previous float64) Delta {
	d := current - previous
	c := Unchanged
	switch {
	case d > 0:
		c = Improved
	case d < 0:
		c = Worsened
	}
	return Delta{Value: d, Classification: c}
}

// RankDelta compares two competition ranks. Negative = improved, since
// moving toward rank 1 means climbing the table.
func RankDelta(current, previous int) Delta {
	d := current - previous
	c := Unchanged
	switch {
	case d < 0:
		c = Improved
	case d > 0:
		c = Worsened
	}
	return Delta{Value: float64(d), Classification: c}
}
