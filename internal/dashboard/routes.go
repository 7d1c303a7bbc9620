package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/pkg/storage"
)

// SetupRoutes registers the catalog and chart-data endpoints.
func SetupRoutes(r *gin.RouterGroup, store storage.Store, timeout time.Duration) {
	h := NewHandler(store, timeout)
	r.GET("/countries", h.Countries)
	r.GET("/years", h.Years)
	r.GET("/observations", h.Observations)

	d := r.Group("/dashboard")
	d.GET("/metrics", h.Metrics)
	d.GET("/evolution", h.Evolution)
	d.GET("/comparison", h.Comparison)
	d.GET("/radar", h.Radar)
	d.GET("/ranking", h.Ranking)
}
