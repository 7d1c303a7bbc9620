package contact

import (
	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/mailer"
)

// SetupRoutes registers the contact form endpoint.
func SetupRoutes(r *gin.RouterGroup, sender mailer.Sender) {
	h := NewHandler(sender)
	r.POST("/contact", h.Submit)
}
