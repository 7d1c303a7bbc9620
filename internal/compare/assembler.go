// Package compare slices the observation set into the aligned per-country
// datasets the comparison and radar charts consume.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ici_dashboard/models"
	"ici_dashboard/pkg/storage"
)

// ErrInvalidSelection marks a selection that is rejected before any fetch:
// missing primary country, duplicated countries or a year range outside
// the dataset bounds.
var ErrInvalidSelection = errors.New("invalid selection")

// YearRange is an inclusive [From, To] window.
type YearRange struct {
	From int
	To   int
}

// Years expands the range into the explicit year list the store filters by.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.To-r.From+1)
	for y := r.From; y <= r.To; y++ {
		years = append(years, y)
	}
	return years
}

// Set is the assembled dataset for one primary country and its comparisons.
type Set struct {
	// Countries is the selection order: primary first, then comparisons.
	Countries []string
	// Series maps every selected country to its observations in range,
	// year ascending. A country with no data in range keeps an empty
	// (non-nil) series, so "selected but no data" stays distinguishable
	// from "not selected".
	Series map[string][]models.Observation
	// Years is the ascending union of years observed across the set.
	Years []int
}

// Assembler fetches and partitions comparison data. It holds no state
// besides the injected store; every call is a pure function of its inputs
// and the current dataset snapshot.
type Assembler struct {
	store storage.Store
}

func NewAssembler(store storage.Store) *Assembler {
	return &Assembler{store: store}
}

// Assemble validates the selection, fetches one combined dataset for all
// selected countries restricted to the year range, and partitions it per
// country. Validation failures are reported before the store is touched.
func (a *Assembler) Assemble(ctx context.Context, primary string, comparisons []string, yr YearRange) (*Set, error) {
	countries, err := buildSelection(primary, comparisons)
	if err != nil {
		return nil, err
	}
	if yr.From > yr.To {
		return nil, fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidSelection, yr.From, yr.To)
	}

	minYear, maxYear, err := a.store.YearBounds(ctx)
	if err != nil {
		return nil, err
	}
	if yr.From < minYear || yr.To > maxYear {
		return nil, fmt.Errorf("%w: year range %d-%d outside dataset bounds %d-%d",
			ErrInvalidSelection, yr.From, yr.To, minYear, maxYear)
	}

	observations, err := a.store.Observations(ctx, storage.Filter{Countries: countries, Years: yr.Years()})
	if err != nil {
		return nil, err
	}

	set := &Set{
		Countries: countries,
		Series:    make(map[string][]models.Observation, len(countries)),
	}
	for _, c := range countries {
		set.Series[c] = []models.Observation{}
	}

	seen := make(map[int]bool)
	for _, o := range observations {
		// The store orders by (country_name, year), so appending keeps
		// each series year-ascending.
		set.Series[o.CountryName] = append(set.Series[o.CountryName], o)
		if !seen[o.Year] {
			seen[o.Year] = true
			set.Years = append(set.Years, o.Year)
		}
	}
	sort.Ints(set.Years)

	return set, nil
}

// Snapshot returns the single-year cross-section the radar chart needs:
// exactly one observation per requested country, or nil for countries
// without a row in that year. Every requested country is present as a key,
// and nil is deliberately distinct from a zero-valued observation.
func (a *Assembler) Snapshot(ctx context.Context, year int, countries []string) (map[string]*models.Observation, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("%w: no countries selected", ErrInvalidSelection)
	}

	observations, err := a.store.Observations(ctx, storage.Filter{Countries: countries, Years: []int{year}})
	if err != nil {
		return nil, err
	}

	cross := make(map[string]*models.Observation, len(countries))
	for _, c := range countries {
		cross[c] = nil
	}
	for i := range observations {
		o := observations[i]
		cross[o.CountryName] = &o
	}
	return cross, nil
}

// buildSelection checks the selection rules and returns the ordered country
// list: primary first, comparisons in selection order.
func buildSelection(primary string, comparisons []string) ([]string, error) {
	if primary == "" {
		return nil, fmt.Errorf("%w: primary country is required", ErrInvalidSelection)
	}

	countries := make([]string, 0, len(comparisons)+1)
	countries = append(countries, primary)
	seen := map[string]bool{primary: true}
	for _, c := range comparisons {
		if c == primary {
			return nil, fmt.Errorf("%w: %q appears as both primary and comparison country", ErrInvalidSelection, c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %q selected twice", ErrInvalidSelection, c)
		}
		seen[c] = true
		countries = append(countries, c)
	}
	return countries, nil
}
