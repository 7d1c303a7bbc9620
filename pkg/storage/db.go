package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ici_dashboard/models"
)

// tableName is the table populated by the external ETL pipeline.
const tableName = "indice_complexidade_institucional"

// ErrUnavailable marks transport or SQL failures of the underlying store.
// Handlers map it to a visible "data unavailable" response instead of
// rendering an empty dashboard silently.
var ErrUnavailable = errors.New("data store unavailable")

// Store is the read interface the dashboard consumes. *DB implements it
// directly, *Cached adds memoization on top.
type Store interface {
	ListCountries(ctx context.Context) ([]string, error)
	YearBounds(ctx context.Context) (int, int, error)
	Observations(ctx context.Context, f Filter) ([]models.Observation, error)
}

// Filter restricts which observations are fetched. A nil or empty slice
// means "no restriction" for that field.
type Filter struct {
	Countries []string
	Years     []int
}

// DB wraps a PostgreSQL connection with the queries the dashboard needs.
// The dataset is read-only from the application's point of view.
type DB struct {
	Conn *sql.DB
}

func NewDB(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// ListCountries returns the distinct country names in ascending order.
func (db *DB) ListCountries(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT country_name FROM ` + tableName + ` ORDER BY country_name`

	rows, err := db.Conn.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable(err)
		}
		countries = append(countries, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return countries, nil
}

// YearBounds returns the minimum and maximum year present in the dataset.
func (db *DB) YearBounds(ctx context.Context) (int, int, error) {
	query := `SELECT MIN(year), MAX(year) FROM ` + tableName

	var minYear, maxYear int
	if err := db.Conn.QueryRowContext(ctx, query).Scan(&minYear, &maxYear); err != nil {
		return 0, 0, unavailable(err)
	}
	return minYear, maxYear, nil
}

// Observations returns the rows matching the filter, ordered by
// (country_name, year) ascending. Null index columns stay nil on the
// returned observations.
func (db *DB) Observations(ctx context.Context, f Filter) ([]models.Observation, error) {
	query := `
		SELECT country_name, country_cod, year,
		       indice_socio_cultural, indice_mercados_negocios, indice_empreendedorismo,
		       indice_eficiencia_governo, indice_ambiente_juridico, indice_total,
		       n_dims_ok
		FROM ` + tableName

	var (
		conds []string
		args  []interface{}
	)
	if len(f.Countries) > 0 {
		args = append(args, pq.Array(f.Countries))
		conds = append(conds, fmt.Sprintf("country_name = ANY($%d)", len(args)))
	}
	if len(f.Years) > 0 {
		years := make([]int64, len(f.Years))
		for i, y := range f.Years {
			years[i] = int64(y)
		}
		args = append(args, pq.Array(years))
		conds = append(conds, fmt.Sprintf("year = ANY($%d)", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY country_name, year"

	rows, err := db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var (
			o      models.Observation
			values [6]sql.NullFloat64
		)
		err := rows.Scan(
			&o.CountryName, &o.CountryCode, &o.Year,
			&values[0], &values[1], &values[2], &values[3], &values[4], &values[5],
			&o.NDimsOK,
		)
		if err != nil {
			return nil, unavailable(err)
		}
		o.SocioCultural = nullable(values[0])
		o.MarketsBusiness = nullable(values[1])
		o.Entrepreneurship = nullable(values[2])
		o.GovEfficiency = nullable(values[3])
		o.LegalEnvironment = nullable(values[4])
		o.Total = nullable(values[5])
		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return observations, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
