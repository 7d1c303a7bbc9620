package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ici_dashboard/models"
)

// Cached memoizes store reads by (operation, arguments) with a fixed TTL.
// It is a performance layer only: removing it must not change any output,
// so errors are never cached and entries are plain snapshots. Cached
// observation slices are shared between callers and must not be mutated.
type Cached struct {
	store Store
	mem   *gocache.Cache
}

func NewCached(store Store, ttl time.Duration) *Cached {
	return &Cached{
		store: store,
		mem:   gocache.New(ttl, 2*ttl),
	}
}

func (c *Cached) ListCountries(ctx context.Context) ([]string, error) {
	const key = "countries"
	if v, ok := c.mem.Get(key); ok {
		return v.([]string), nil
	}
	countries, err := c.store.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	c.mem.SetDefault(key, countries)
	return countries, nil
}

type yearBounds struct {
	min, max int
}

func (c *Cached) YearBounds(ctx context.Context) (int, int, error) {
	const key = "year_bounds"
	if v, ok := c.mem.Get(key); ok {
		b := v.(yearBounds)
		return b.min, b.max, nil
	}
	minYear, maxYear, err := c.store.YearBounds(ctx)
	if err != nil {
		return 0, 0, err
	}
	c.mem.SetDefault(key, yearBounds{minYear, maxYear})
	return minYear, maxYear, nil
}

func (c *Cached) Observations(ctx context.Context, f Filter) ([]models.Observation, error) {
	key := filterKey(f)
	if v, ok := c.mem.Get(key); ok {
		return v.([]models.Observation), nil
	}
	observations, err := c.store.Observations(ctx, f)
	if err != nil {
		return nil, err
	}
	c.mem.SetDefault(key, observations)
	return observations, nil
}

// filterKey canonicalizes the filter so argument order does not split the
// cache: the query result is the same regardless of slice order.
func filterKey(f Filter) string {
	countries := append([]string(nil), f.Countries...)
	sort.Strings(countries)

	years := make([]string, len(f.Years))
	sorted := append([]int(nil), f.Years...)
	sort.Ints(sorted)
	for i, y := range sorted {
		years[i] = strconv.Itoa(y)
	}

	return fmt.Sprintf("observations|%s|%s", strings.Join(countries, ","), strings.Join(years, ","))
}
