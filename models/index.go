package models

// Index identifies one of the six complexity indices of an observation.
// The value is the column name of the index in the source table.
type Index string

const (
	IndexSocioCultural    Index = "indice_socio_cultural"
	IndexMarketsBusiness  Index = "indice_mercados_negocios"
	IndexEntrepreneurship Index = "indice_empreendedorismo"
	IndexGovEfficiency    Index = "indice_eficiencia_governo"
	IndexLegalEnvironment Index = "indice_ambiente_juridico"
	IndexTotal            Index = "indice_total"
)

// indexMeta holds the presentation attributes of one index.
type indexMeta struct {
	label string
	color string
}

var indexInfo = map[Index]indexMeta{
	IndexSocioCultural:    {"Socio-Cultural Index", "#4C82F7"},
	IndexMarketsBusiness:  {"Markets & Business Index", "#FF6B6B"},
	IndexEntrepreneurship: {"Entrepreneurship Index", "#1DD1A1"},
	IndexGovEfficiency:    {"Government Efficiency Index", "#A354FF"},
	IndexLegalEnvironment: {"Legal Environment Index", "#FFA502"},
	IndexTotal:            {"Total Complexity Index", "#2C3E50"},
}

// Indices returns the six indices in display order: the five components
// followed by the total.
func Indices() []Index {
	return []Index{
		IndexSocioCultural,
		IndexMarketsBusiness,
		IndexEntrepreneurship,
		IndexGovEfficiency,
		IndexLegalEnvironment,
		IndexTotal,
	}
}

// ParseIndex validates a column name coming from a request parameter.
func ParseIndex(s string) (Index, bool) {
	idx := Index(s)
	_, ok := indexInfo[idx]
	return idx, ok
}

// Column returns the name of the index column in the source table.
func (i Index) Column() string { return string(i) }

// Label returns the English display label of the index.
func (i Index) Label() string { return indexInfo[i].label }

// Color returns the hex color used for the index in charts.
func (i Index) Color() string { return indexInfo[i].color }
