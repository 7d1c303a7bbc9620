// Package download handles the data download request form: the filtered
// dataset is mailed to the requester, with direct download as fallback
// when delivery fails.
package download

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/export"
	"ici_dashboard/internal/httputil"
	"ici_dashboard/internal/mailer"
	"ici_dashboard/pkg/storage"
)

// Handler processes download request submissions.
type Handler struct {
	store   storage.Store
	sender  mailer.Sender
	timeout time.Duration
}

func NewHandler(store storage.Store, sender mailer.Sender, timeout time.Duration) *Handler {
	return &Handler{store: store, sender: sender, timeout: timeout}
}

// Request is the download form payload.
type Request struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required"`
	Institution string   `json:"institution" binding:"required"`
	Purpose     string   `json:"purpose" binding:"required"`
	Countries   []string `json:"countries"`
	YearFrom    int      `json:"year_from"`
	YearTo      int      `json:"year_to"`
	Format      string   `json:"format"` // csv or xlsx, default csv
}

// Submit validates the form, builds the export and mails it to the
// requester plus a notification to the admin. A delivery failure is not a
// hard error: the response carries a fallback URL for direct download.
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "all fields name, email, institution and purpose are required")
		return
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		httputil.RespondError(c, http.StatusBadRequest, "invalid email address")
		return
	}
	format := export.FormatCSV
	if req.Format != "" {
		var ok bool
		if format, ok = export.ParseFormat(req.Format); !ok || format == export.FormatJSON {
			httputil.RespondError(c, http.StatusBadRequest,
				fmt.Sprintf("unknown format %q, expected csv or xlsx", req.Format))
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	file, err := export.BuildFiltered(ctx, h.store, format, export.Request{
		Countries: req.Countries,
		YearFrom:  optionalYear(req.YearFrom),
		YearTo:    optionalYear(req.YearTo),
	})
	if err != nil {
		log.Printf("[HANDLER ERROR] download request export: %v", err)
		httputil.RespondForError(c, err)
		return
	}

	if err := h.sender.Send(h.userMessage(req, file), h.adminMessage(req, file)); err != nil {
		// Delivery failure falls back to direct download instead of
		// propagating a hard error to the requester.
		log.Printf("[HANDLER ERROR] download request delivery: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"delivered":    false,
			"error":        "email delivery failed",
			"fallback_url": fallbackURL(format, req),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivered": true, "recipient": req.Email})
}

func (h *Handler) userMessage(req Request, file *export.File) mailer.Message {
	countries := "All"
	if len(req.Countries) > 0 {
		countries = strings.Join(req.Countries, ", ")
	}
	body := fmt.Sprintf(`Dear %s,

Thank you for your interest in the Institutional Complexity Index data.

Please find attached the requested data file.

Download details:
- Format: %s
- Countries: %s

If you have any questions or need assistance, please don't hesitate to contact us.

Best regards,
Institutional Complexity Index Team
`, req.Name, strings.ToUpper(string(fileFormat(file))), countries)

	return mailer.Message{
		To:      req.Email,
		Subject: "Institutional Complexity Index - Data Download",
		Body:    body,
		Attachment: &mailer.Attachment{
			Name: file.Name,
			MIME: file.MIME,
			Data: file.Data,
		},
	}
}

func (h *Handler) adminMessage(req Request, file *export.File) mailer.Message {
	countries := "All"
	if len(req.Countries) > 0 {
		countries = strings.Join(req.Countries, ", ")
	}
	body := fmt.Sprintf(`New data download request received:

User information:
- Name: %s
- Email: %s
- Institution: %s
- Purpose: %s

Download details:
- Date/Time: %s
- File: %s
- Countries: %s

---
This is an automated notification from the Institutional Complexity Index Dashboard.
`, req.Name, req.Email, req.Institution, req.Purpose,
		time.Now().Format("2006-01-02 15:04:05"), file.Name, countries)

	return mailer.Message{
		To:      h.sender.AdminEmail(),
		Subject: fmt.Sprintf("New Data Download Request - %s", req.Name),
		Body:    body,
	}
}

func fallbackURL(format export.Format, req Request) string {
	q := url.Values{}
	q.Set("format", string(format))
	if len(req.Countries) > 0 {
		q.Set("countries", strings.Join(req.Countries, ","))
	}
	if req.YearFrom != 0 {
		q.Set("year_from", strconv.Itoa(req.YearFrom))
	}
	if req.YearTo != 0 {
		q.Set("year_to", strconv.Itoa(req.YearTo))
	}
	return "/api/export?" + q.Encode()
}

func optionalYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func fileFormat(file *export.File) export.Format {
	if strings.HasSuffix(file.Name, ".xlsx") {
		return export.FormatXLSX
	}
	return export.FormatCSV
}
