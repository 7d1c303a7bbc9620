package export

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
	"ici_dashboard/pkg/storage"
)

// Handler serves direct file downloads of the filtered dataset.
type Handler struct {
	store   storage.Store
	timeout time.Duration
}

func NewHandler(store storage.Store, timeout time.Duration) *Handler {
	return &Handler{store: store, timeout: timeout}
}

// Download streams the filtered dataset in the requested format.
func (h *Handler) Download(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	format, ok := ParseFormat(c.DefaultQuery("format", string(FormatCSV)))
	if !ok {
		httputil.RespondError(c, http.StatusBadRequest,
			fmt.Sprintf("unknown format %q, expected csv, xlsx or json", c.Query("format")))
		return
	}

	file, err := BuildFiltered(ctx, h.store, format, Request{
		Countries: splitList(c.Query("countries")),
		YearFrom:  c.Query("year_from"),
		YearTo:    c.Query("year_to"),
	})
	if err != nil {
		log.Printf("[HANDLER ERROR] export: %v", err)
		httputil.RespondForError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	c.Data(http.StatusOK, file.MIME, file.Data)
}

// Request carries the filter part of an export, shared between the direct
// download endpoint and the email request form.
type Request struct {
	Countries []string
	YearFrom  string
	YearTo    string
}

// BuildFiltered resolves the year range against the dataset bounds, fetches
// the matching observations and encodes them.
func BuildFiltered(ctx context.Context, store storage.Store, format Format, req Request) (*File, error) {
	minYear, maxYear, err := store.YearBounds(ctx)
	if err != nil {
		return nil, err
	}

	from, to := minYear, maxYear
	if req.YearFrom != "" {
		if from, err = parseYear("year_from", req.YearFrom); err != nil {
			return nil, err
		}
	}
	if req.YearTo != "" {
		if to, err = parseYear("year_to", req.YearTo); err != nil {
			return nil, err
		}
	}
	if from > to {
		return nil, fmt.Errorf("%w: year range %d-%d is inverted", compare.ErrInvalidSelection, from, to)
	}

	yr := compare.YearRange{From: from, To: to}
	observations, err := store.Observations(ctx, storage.Filter{Countries: req.Countries, Years: yr.Years()})
	if err != nil {
		return nil, err
	}
	return Build(format, observations, from, to)
}

func parseYear(name, s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a year", compare.ErrInvalidSelection, name, s)
	}
	return y, nil
}

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
