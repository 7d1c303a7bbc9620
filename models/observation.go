package models

// Observation is one row of the indice_complexidade_institucional table:
// a single country-year record with the six index values.
// Rows are produced by an external ETL pipeline and are read-only here.
type Observation struct {
	CountryName      string   `json:"country_name"`
	CountryCode      string   `json:"country_code"` // ISO-3, column country_cod
	Year             int      `json:"year"`
	SocioCultural    *float64 `json:"indice_socio_cultural"`
	MarketsBusiness  *float64 `json:"indice_mercados_negocios"`
	Entrepreneurship *float64 `json:"indice_empreendedorismo"`
	GovEfficiency    *float64 `json:"indice_eficiencia_governo"`
	LegalEnvironment *float64 `json:"indice_ambiente_juridico"`
	Total            *float64 `json:"indice_total"`
	NDimsOK          int      `json:"n_dims_ok"` // Number of dimensions with source data
}

// Value returns the observation's value for the given index.
// ok is false when the column is null in the source table; callers must not
// treat a missing value as zero.
func (o Observation) Value(idx Index) (float64, bool) {
	var p *float64
	switch idx {
	case IndexSocioCultural:
		p = o.SocioCultural
	case IndexMarketsBusiness:
		p = o.MarketsBusiness
	case IndexEntrepreneurship:
		p = o.Entrepreneurship
	case IndexGovEfficiency:
		p = o.GovEfficiency
	case IndexLegalEnvironment:
		p = o.LegalEnvironment
	case IndexTotal:
		p = o.Total
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}
