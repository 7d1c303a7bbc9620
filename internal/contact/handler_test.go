package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ici_dashboard/internal/mailer"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(messages ...mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, messages...)
	return nil
}

func (s *stubSender) AdminEmail() string { return "admin@example.com" }

func post(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func testRouter(sender mailer.Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r.Group("/api"), sender)
	return r
}

func TestSubmitSendsAdminAndConfirmation(t *testing.T) {
	sender := &stubSender{}
	r := testRouter(sender)

	w := post(t, r, Request{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Data question",
		Message: "How often is the index updated?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "admin@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "How often is the index updated?")
	assert.Equal(t, "ada@example.com", sender.sent[1].To)
}

func TestSubmitRejectsIncompleteForm(t *testing.T) {
	sender := &stubSender{}
	r := testRouter(sender)

	w := post(t, r, Request{Name: "Ada", Email: "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sender.sent)
}

func TestSubmitReportsDeliveryFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	r := testRouter(sender)

	w := post(t, r, Request{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hi",
		Message: "Hello",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
