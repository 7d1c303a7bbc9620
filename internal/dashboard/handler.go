package dashboard

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/compare"
	"ici_dashboard/internal/httputil"
	"ici_dashboard/internal/rank"
	"ici_dashboard/internal/trend"
	"ici_dashboard/models"
	"ici_dashboard/pkg/storage"
)

// Handler serves the chart and ranking data consumed by the dashboard
// front-end. It holds no request state: every endpoint recomputes from the
// current dataset snapshot.
type Handler struct {
	store   storage.Store
	asm     *compare.Assembler
	timeout time.Duration
}

func NewHandler(store storage.Store, timeout time.Duration) *Handler {
	return &Handler{
		store:   store,
		asm:     compare.NewAssembler(store),
		timeout: timeout,
	}
}

func (h *Handler) requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// Countries returns the country catalog in ascending order.
func (h *Handler) Countries(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	countries, err := h.store.ListCountries(ctx)
	if err != nil {
		log.Printf("[HANDLER ERROR] list countries: %v", err)
		httputil.RespondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// Years returns the global year bounds of the dataset.
func (h *Handler) Years(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	minYear, maxYear, err := h.store.YearBounds(ctx)
	if err != nil {
		log.Printf("[HANDLER ERROR] year bounds: %v", err)
		httputil.RespondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"min_year": minYear, "max_year": maxYear})
}

// Observations returns filtered raw rows, ordered by (country, year).
func (h *Handler) Observations(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	yr, err := h.yearRange(ctx, c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}
	filter := storage.Filter{Countries: splitList(c.Query("countries")), Years: yr.Years()}

	observations, err := h.store.Observations(ctx, filter)
	if err != nil {
		log.Printf("[HANDLER ERROR] observations: %v", err)
		httputil.RespondForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"observations": observations, "count": len(observations)})
}

// Metrics returns the ranking cards for one country: current rank per index
// in the latest year of the selected range, plus the change against the
// previous year in range when one exists.
func (h *Handler) Metrics(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	country := c.Query("country")
	yr, err := h.yearRange(ctx, c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}

	set, err := h.asm.Assemble(ctx, country, nil, yr)
	if err != nil {
		log.Printf("[HANDLER ERROR] metrics for %q: %v", country, err)
		httputil.RespondForError(c, err)
		return
	}
	series := set.Series[country]
	if len(series) == 0 {
		httputil.RespondError(c, http.StatusNotFound,
			fmt.Sprintf("no observations for %q between %d and %d", country, yr.From, yr.To))
		return
	}

	latestYear := series[len(series)-1].Year
	current, err := h.yearRanking(ctx, latestYear)
	if err != nil {
		log.Printf("[HANDLER ERROR] metrics ranking %d: %v", latestYear, err)
		httputil.RespondForError(c, err)
		return
	}

	// The previous year comes from the country's own filtered series, not
	// latestYear-1: gaps in the series compare against the last year that
	// actually has data.
	var (
		previousYear *int
		previous     map[models.Index]rank.Table
	)
	if len(series) > 1 {
		y := series[len(series)-2].Year
		previousYear = &y
		previous, err = h.yearRanking(ctx, y)
		if err != nil {
			log.Printf("[HANDLER ERROR] metrics ranking %d: %v", y, err)
			httputil.RespondForError(c, err)
			return
		}
	}

	latest := series[len(series)-1]
	resp := MetricsResponse{
		Country:      country,
		LatestYear:   latestYear,
		PreviousYear: previousYear,
	}
	for _, idx := range models.Indices() {
		m := Metric{
			Index:          idx,
			Label:          idx.Label(),
			Color:          idx.Color(),
			Rank:           rankPosition(current[idx], country),
			TotalCountries: current[idx].TotalCountries,
		}
		if v, ok := latest.Value(idx); ok {
			m.Value = &v
		}
		if previous != nil && m.Rank != nil {
			if prevRank, err := previous[idx].Position(country); err == nil {
				d := trend.RankDelta(*m.Rank, prevRank)
				m.RankDelta = &d
			}
		}
		// The value delta runs over the country's own filtered series, so
		// gaps compare against the last year that actually has a value.
		var points []trend.Point
		for _, o := range series {
			if v, ok := o.Value(idx); ok {
				points = append(points, trend.Point{Year: o.Year, Value: v})
			}
		}
		if cur, prev, ok := trend.LastPair(points); ok {
			d := trend.ValueDelta(cur.Value, prev.Value)
			m.ValueDelta = &d
		}
		resp.Metrics = append(resp.Metrics, m)
	}
	c.JSON(http.StatusOK, resp)
}

// Evolution returns one country's six index series over the selected range.
func (h *Handler) Evolution(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	country := c.Query("country")
	yr, err := h.yearRange(ctx, c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}

	set, err := h.asm.Assemble(ctx, country, nil, yr)
	if err != nil {
		log.Printf("[HANDLER ERROR] evolution for %q: %v", country, err)
		httputil.RespondForError(c, err)
		return
	}
	series := set.Series[country]
	if len(series) == 0 {
		httputil.RespondError(c, http.StatusNotFound,
			fmt.Sprintf("no observations for %q between %d and %d", country, yr.From, yr.To))
		return
	}

	resp := EvolutionResponse{Country: country, Years: set.Years}
	byYear := make(map[int]models.Observation, len(series))
	for _, o := range series {
		byYear[o.Year] = o
	}
	for _, idx := range models.Indices() {
		s := IndexSeries{Index: idx, Label: idx.Label(), Color: idx.Color()}
		for _, y := range set.Years {
			if v, ok := byYear[y].Value(idx); ok {
				value := v
				s.Values = append(s.Values, &value)
			} else {
				s.Values = append(s.Values, nil)
			}
		}
		resp.Series = append(resp.Series, s)
	}
	c.JSON(http.StatusOK, resp)
}

// Comparison returns the aligned multi-country series for one index.
func (h *Handler) Comparison(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	country := c.Query("country")
	comparisons := splitList(c.Query("compare"))
	idx, err := queryIndex(c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}
	yr, err := h.yearRange(ctx, c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}

	set, err := h.asm.Assemble(ctx, country, comparisons, yr)
	if err != nil {
		log.Printf("[HANDLER ERROR] comparison for %q: %v", country, err)
		httputil.RespondForError(c, err)
		return
	}

	resp := ComparisonResponse{Index: idx, Label: idx.Label(), Years: set.Years}
	for _, name := range set.Countries {
		series := set.Series[name]
		if len(series) == 0 {
			resp.NoData = append(resp.NoData, name)
			continue
		}
		cs := CountrySeries{Country: name}
		for _, o := range series {
			v, ok := o.Value(idx)
			if !ok {
				continue
			}
			cs.Years = append(cs.Years, o.Year)
			cs.Values = append(cs.Values, v)
		}
		resp.Series = append(resp.Series, cs)
	}
	c.JSON(http.StatusOK, resp)
}

// Radar returns the single-year cross-section for the selected countries.
func (h *Handler) Radar(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	year, err := queryInt(c, "year")
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}
	country := c.Query("country")
	if country == "" {
		httputil.RespondForError(c, fmt.Errorf("%w: primary country is required", compare.ErrInvalidSelection))
		return
	}
	countries := append([]string{country}, splitList(c.Query("compare"))...)

	cross, err := h.asm.Snapshot(ctx, year, countries)
	if err != nil {
		log.Printf("[HANDLER ERROR] radar year %d: %v", year, err)
		httputil.RespondForError(c, err)
		return
	}

	resp := RadarResponse{Year: year}
	for _, name := range countries {
		o := cross[name]
		if o == nil {
			resp.Countries = append(resp.Countries, RadarCountry{Country: name, Absent: true})
			continue
		}
		rc := RadarCountry{Country: name}
		for _, idx := range models.Indices() {
			rv := RadarValue{Index: idx, Label: idx.Label()}
			if v, ok := o.Value(idx); ok {
				rv.Value = &v
			}
			rc.Values = append(rc.Values, rv)
		}
		resp.Countries = append(resp.Countries, rc)
	}
	c.JSON(http.StatusOK, resp)
}

// Ranking returns the full ranking table for one year and index, with the
// value change against the immediately preceding year where available.
func (h *Handler) Ranking(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	year, err := queryInt(c, "year")
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}
	idx, err := queryIndex(c)
	if err != nil {
		httputil.RespondForError(c, err)
		return
	}

	minYear, maxYear, err := h.store.YearBounds(ctx)
	if err != nil {
		log.Printf("[HANDLER ERROR] ranking bounds: %v", err)
		httputil.RespondForError(c, err)
		return
	}
	if year < minYear || year > maxYear {
		httputil.RespondForError(c, fmt.Errorf("%w: year %d outside dataset bounds %d-%d",
			compare.ErrInvalidSelection, year, minYear, maxYear))
		return
	}

	observations, err := h.store.Observations(ctx, storage.Filter{Years: []int{year}})
	if err != nil {
		log.Printf("[HANDLER ERROR] ranking year %d: %v", year, err)
		httputil.RespondForError(c, err)
		return
	}
	table := rank.Compute(observations, idx)

	// Previous-year values feed the per-row delta column.
	previous := make(map[string]float64)
	if year > minYear {
		prevObs, err := h.store.Observations(ctx, storage.Filter{Years: []int{year - 1}})
		if err != nil {
			log.Printf("[HANDLER ERROR] ranking year %d: %v", year-1, err)
			httputil.RespondForError(c, err)
			return
		}
		for _, o := range prevObs {
			if v, ok := o.Value(idx); ok {
				previous[o.CountryName] = v
			}
		}
	}

	resp := RankingResponse{
		Year:           year,
		Index:          idx,
		Label:          idx.Label(),
		TotalCountries: table.TotalCountries,
	}
	for _, e := range table.Entries {
		row := RankingRow{Rank: e.Rank, CountryName: e.CountryName, Value: e.Value}
		if prev, ok := previous[e.CountryName]; ok {
			d := trend.ValueDelta(e.Value, prev)
			row.ValueDelta = &d
		}
		resp.Entries = append(resp.Entries, row)
	}
	c.JSON(http.StatusOK, resp)
}

// yearRanking fetches one year across all countries and ranks every index.
func (h *Handler) yearRanking(ctx context.Context, year int) (map[models.Index]rank.Table, error) {
	observations, err := h.store.Observations(ctx, storage.Filter{Years: []int{year}})
	if err != nil {
		return nil, err
	}
	tables := make(map[models.Index]rank.Table, 6)
	for _, idx := range models.Indices() {
		tables[idx] = rank.Compute(observations, idx)
	}
	return tables, nil
}

// yearRange reads year_from/year_to, falling back to the dataset bounds
// when a side is missing. Range validation itself happens in the assembler.
func (h *Handler) yearRange(ctx context.Context, c *gin.Context) (compare.YearRange, error) {
	minYear, maxYear, err := h.store.YearBounds(ctx)
	if err != nil {
		log.Printf("[HANDLER ERROR] year bounds: %v", err)
		return compare.YearRange{}, err
	}

	yr := compare.YearRange{From: minYear, To: maxYear}
	if s := c.Query("year_from"); s != "" {
		if yr.From, err = parseYear("year_from", s); err != nil {
			return compare.YearRange{}, err
		}
	}
	if s := c.Query("year_to"); s != "" {
		if yr.To, err = parseYear("year_to", s); err != nil {
			return compare.YearRange{}, err
		}
	}
	return yr, nil
}

func parseYear(name, s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a year", compare.ErrInvalidSelection, name, s)
	}
	return y, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", compare.ErrInvalidSelection, name)
	}
	return parseYear(name, s)
}

func queryIndex(c *gin.Context) (models.Index, error) {
	s := c.Query("index")
	if s == "" {
		return models.IndexTotal, nil
	}
	idx, ok := models.ParseIndex(s)
	if !ok {
		return "", fmt.Errorf("%w: unknown index %q", compare.ErrInvalidSelection, s)
	}
	return idx, nil
}

// splitList parses a comma-separated query value, dropping empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
