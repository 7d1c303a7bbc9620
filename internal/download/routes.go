package download

import (
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/mailer"
	"ici_dashboard/pkg/storage"
)

// SetupRoutes registers the download request form endpoint.
func SetupRoutes(r *gin.RouterGroup, store storage.Store, sender mailer.Sender, timeout time.Duration) {
	h := NewHandler(store, sender, timeout)
	r.POST("/download/request", h.Submit)
}
