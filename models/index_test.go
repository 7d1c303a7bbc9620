package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicesOrder(t *testing.T) {
	indices := Indices()
	require.Len(t, indices, 6)
	assert.Equal(t, IndexSocioCultural, indices[0])
	assert.Equal(t, IndexTotal, indices[5])

	for _, idx := range indices {
		assert.NotEmpty(t, idx.Label())
		assert.NotEmpty(t, idx.Color())
	}
}

func TestParseIndex(t *testing.T) {
	idx, ok := ParseIndex("indice_total")
	require.True(t, ok)
	assert.Equal(t, IndexTotal, idx)

	_, ok = ParseIndex("indice_magico")
	assert.False(t, ok)
}

func TestObservationValue(t *testing.T) {
	v := 65.0
	o := Observation{CountryName: "Brazil", Year: 2023, Total: &v}

	got, ok := o.Value(IndexTotal)
	require.True(t, ok)
	assert.Equal(t, 65.0, got)

	// Null columns report absent, they never read as zero.
	_, ok = o.Value(IndexSocioCultural)
	assert.False(t, ok)
}
