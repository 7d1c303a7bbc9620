package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/compare"
	"ici_dashboard/internal/rank"
	"ici_dashboard/pkg/storage"
)

// RespondError sends an error message in the shared format and stops the
// request. AbortWithStatusJSON keeps later handlers from running even when
// a caller forgets to return.
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// RespondForError maps the application's error taxonomy onto HTTP statuses:
// invalid selections are client errors, unranked lookups are not found, and
// store failures are surfaced as unavailable rather than an empty dataset.
func RespondForError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, compare.ErrInvalidSelection):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, rank.ErrNotRanked):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "data store unavailable, please try again later")
	default:
		RespondError(c, http.StatusInternalServerError, "internal error")
	}
}
