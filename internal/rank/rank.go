// Package rank computes per-year country rankings over one index column.
package rank

import (
	"errors"
	"fmt"
	"sort"

	"ici_dashboard/models"
)

// ErrNotRanked is returned when a country has no ranked position for the
// requested year, either because it has no observation at all or because
// its value for the index is null. Callers must surface this instead of
// defaulting to last place or zero.
var ErrNotRanked = errors.New("country not ranked")

// Entry is one row of a ranking table.
type Entry struct {
	CountryName string  `json:"country_name"`
	Rank        int     `json:"rank"`
	Value       float64 `json:"value"`
}

// Table holds the ranking of all countries with a value for one
// (year, index) pair. Entries are ordered by value descending, then by
// country name ascending, so presentation order is deterministic even
// among ties.
type Table struct {
	Entries        []Entry
	TotalCountries int

	positions map[string]int
}

// Compute builds the competition ranking for the given year slice:
// rank = 1 + number of countries with a strictly greater value, so tied
// countries share the minimum rank of the group (two tied at the top are
// both rank 1 and the next distinct value gets rank 3).
//
// Observations whose value for idx is null are left out of the table and
// out of TotalCountries; a ranking position only makes sense among
// comparable countries. The input must contain exactly one year; the
// function itself is a pure transformation of the slice.
func Compute(observations []models.Observation, idx models.Index) Table {
	entries := make([]Entry, 0, len(observations))
	for _, o := range observations {
		v, ok := o.Value(idx)
		if !ok {
			continue
		}
		entries = append(entries, Entry{CountryName: o.CountryName, Value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].CountryName < entries[j].CountryName
	})

	positions := make(map[string]int, len(entries))
	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
		positions[entries[i].CountryName] = entries[i].Rank
	}

	return Table{
		Entries:        entries,
		TotalCountries: len(entries),
		positions:      positions,
	}
}

// Position returns the rank of one country, 1 = best.
func (t Table) Position(country string) (int, error) {
	r, ok := t.positions[country]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotRanked, country)
	}
	return r, nil
}
