package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ici_dashboard/models"
)

var observationColumns = []string{
	"country_name", "country_cod", "year",
	"indice_socio_cultural", "indice_mercados_negocios", "indice_empreendedorismo",
	"indice_eficiencia_governo", "indice_ambiente_juridico", "indice_total",
	"n_dims_ok",
}

func TestListCountries(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT country_name FROM indice_complexidade_institucional ORDER BY country_name")).
		WillReturnRows(sqlmock.NewRows([]string{"country_name"}).AddRow("Brazil").AddRow("Chile"))

	db := NewDB(conn)
	countries, err := db.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Brazil", "Chile"}, countries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestYearBounds(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(year), MAX(year) FROM indice_complexidade_institucional")).
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(2015, 2023))

	db := NewDB(conn)
	minYear, maxYear, err := db.YearBounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2015, minYear)
	assert.Equal(t, 2023, maxYear)
}

func TestObservationsUnfiltered(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	rows := sqlmock.NewRows(observationColumns).
		AddRow("Brazil", "BRA", 2023, 70.0, 60.0, 55.0, 50.0, 45.0, 65.0, 5).
		AddRow("Chile", "CHL", 2023, nil, 62.0, 58.0, 54.0, 48.0, 65.0, 4)

	mock.ExpectQuery("SELECT country_name, country_cod, year").
		WillReturnRows(rows)

	db := NewDB(conn)
	observations, err := db.Observations(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, "Brazil", observations[0].CountryName)
	assert.Equal(t, "BRA", observations[0].CountryCode)
	require.NotNil(t, observations[0].Total)
	assert.Equal(t, 65.0, *observations[0].Total)

	// A null column stays nil, it is never coerced to zero.
	assert.Nil(t, observations[1].SocioCultural)
	_, ok := observations[1].Value(models.IndexSocioCultural)
	assert.False(t, ok)
}

func TestObservationsWithFilter(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`country_name = ANY\(\$1\) AND year = ANY\(\$2\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(observationColumns).
			AddRow("Brazil", "BRA", 2023, 70.0, 60.0, 55.0, 50.0, 45.0, 65.0, 5))

	db := NewDB(conn)
	observations, err := db.Observations(context.Background(), Filter{
		Countries: []string{"Brazil"},
		Years:     []int{2023},
	})
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, 2023, observations[0].Year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationsUnavailable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT country_name, country_cod, year").
		WillReturnError(assert.AnError)

	db := NewDB(conn)
	_, err = db.Observations(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
