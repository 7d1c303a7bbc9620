// Package contact handles the contact form: the message goes to the admin
// and the sender receives a confirmation copy.
package contact

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/httputil"
	"ici_dashboard/internal/mailer"
)

// Handler processes contact form submissions.
type Handler struct {
	sender mailer.Sender
}

func NewHandler(sender mailer.Sender) *Handler {
	return &Handler{sender: sender}
}

// Request is the contact form payload.
type Request struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Submit validates the form and delivers both messages.
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "all fields name, email, subject and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		httputil.RespondError(c, http.StatusBadRequest, "invalid email address")
		return
	}

	admin := mailer.Message{
		To:      h.sender.AdminEmail(),
		Subject: fmt.Sprintf("Contact Form - %s", req.Subject),
		Body: fmt.Sprintf(`New contact form message received:

- Name: %s
- Email: %s
- Date/Time: %s

%s
`, req.Name, req.Email, time.Now().Format("2006-01-02 15:04:05"), req.Message),
	}
	confirmation := mailer.Message{
		To:      req.Email,
		Subject: "Institutional Complexity Index - Message Received",
		Body: fmt.Sprintf(`Dear %s,

Thank you for reaching out. We received your message with the subject
%q and will get back to you as soon as possible.

Best regards,
Institutional Complexity Index Team
`, req.Name, req.Subject),
	}

	if err := h.sender.Send(admin, confirmation); err != nil {
		log.Printf("[HANDLER ERROR] contact delivery: %v", err)
		httputil.RespondError(c, http.StatusBadGateway, "message could not be delivered, please try again later")
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivered": true})
}
