package export

import (
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/pkg/storage"
)

// SetupRoutes registers the direct download endpoint.
func SetupRoutes(r *gin.RouterGroup, store storage.Store, timeout time.Duration) {
	h := NewHandler(store, timeout)
	r.GET("/export", h.Download)
}
