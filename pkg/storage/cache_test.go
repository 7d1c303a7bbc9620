package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ici_dashboard/models"
)

// countingStore records how often the underlying store is hit.
type countingStore struct {
	countriesCalls int
	boundsCalls    int
	fetchCalls     int
	failNext       bool
}

var errBoom = errors.New("boom")

func (s *countingStore) ListCountries(ctx context.Context) ([]string, error) {
	s.countriesCalls++
	if s.failNext {
		s.failNext = false
		return nil, errBoom
	}
	return []string{"Brazil", "Chile"}, nil
}

func (s *countingStore) YearBounds(ctx context.Context) (int, int, error) {
	s.boundsCalls++
	return 2015, 2023, nil
}

func (s *countingStore) Observations(ctx context.Context, f Filter) ([]models.Observation, error) {
	s.fetchCalls++
	return []models.Observation{{CountryName: "Brazil", Year: 2023}}, nil
}

func TestCachedMemoizesReads(t *testing.T) {
	store := &countingStore{}
	cached := NewCached(store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		countries, err := cached.ListCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Brazil", "Chile"}, countries)

		minYear, maxYear, err := cached.YearBounds(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2015, minYear)
		assert.Equal(t, 2023, maxYear)
	}

	assert.Equal(t, 1, store.countriesCalls)
	assert.Equal(t, 1, store.boundsCalls)
}

func TestCachedCanonicalizesFilterArguments(t *testing.T) {
	store := &countingStore{}
	cached := NewCached(store, time.Minute)
	ctx := context.Background()

	_, err := cached.Observations(ctx, Filter{Countries: []string{"Brazil", "Chile"}, Years: []int{2023, 2022}})
	require.NoError(t, err)
	_, err = cached.Observations(ctx, Filter{Countries: []string{"Chile", "Brazil"}, Years: []int{2022, 2023}})
	require.NoError(t, err)

	// Same selection in a different order is the same query.
	assert.Equal(t, 1, store.fetchCalls)

	_, err = cached.Observations(ctx, Filter{Countries: []string{"Chile"}})
	require.NoError(t, err)
	assert.Equal(t, 2, store.fetchCalls)
}

func TestCachedNeverCachesErrors(t *testing.T) {
	store := &countingStore{failNext: true}
	cached := NewCached(store, time.Minute)
	ctx := context.Background()

	_, err := cached.ListCountries(ctx)
	require.ErrorIs(t, err, errBoom)

	countries, err := cached.ListCountries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brazil", "Chile"}, countries)
	assert.Equal(t, 2, store.countriesCalls)
}

func TestCachedExpires(t *testing.T) {
	store := &countingStore{}
	cached := NewCached(store, 10*time.Millisecond)
	ctx := context.Background()

	_, err := cached.ListCountries(ctx)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = cached.ListCountries(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, store.countriesCalls)
}
