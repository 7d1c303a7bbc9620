package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ici_dashboard/internal/mailer"
	"ici_dashboard/models"
	"ici_dashboard/pkg/storage"
)

type stubStore struct {
	observations []models.Observation
}

func (s *stubStore) ListCountries(ctx context.Context) ([]string, error) { return nil, nil }

func (s *stubStore) YearBounds(ctx context.Context) (int, int, error) { return 2015, 2023, nil }

func (s *stubStore) Observations(ctx context.Context, f storage.Filter) ([]models.Observation, error) {
	return s.observations, nil
}

// stubSender records outgoing messages instead of dialing SMTP.
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

func testRouter(sender mailer.Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := 65.0
	store := &stubStore{observations: []models.Observation{
		{CountryName: "Brazil", CountryCode: "BRA", Year: 2023, Total: &v},
	}}
	r := gin.New()
	SetupRoutes(r.Group("/api"), store, sender, time.Second)
	return r
}

func post(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/api/download/request", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func validRequest() Request {
	return Request{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Institution: "University",
		Purpose:     "Research",
		Countries:   []string{"Brazil"},
		YearFrom:    2022,
		YearTo:      2023,
		Format:      "csv",
	}
}

func TestSubmitDeliversBothMessages(t *testing.T) {
	sender := &stubSender{}
	r := testRouter(sender)

	w := post(t, r, validRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["delivered"])

	require.Len(t, sender.sent, 2)
	user, admin := sender.sent[0], sender.sent[1]

	assert.Equal(t, "ada@example.com", user.To)
	require.NotNil(t, user.Attachment)
	assert.Equal(t, "institutional_complexity_index_2022_2023.csv", user.Attachment.Name)
	assert.NotEmpty(t, user.Attachment.Data)

	assert.Equal(t, "admin@example.com", admin.To)
	assert.Nil(t, admin.Attachment)
	assert.Contains(t, admin.Body, "Ada Lovelace")
}

func TestSubmitFallsBackOnDeliveryFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	r := testRouter(sender)

	w := post(t, r, validRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["delivered"])
	fallback, _ := resp["fallback_url"].(string)
	assert.Contains(t, fallback, "/api/export?")
	assert.Contains(t, fallback, "format=csv")
	assert.Contains(t, fallback, "countries=Brazil")
}

func TestSubmitNotConfiguredFallsBack(t *testing.T) {
	sender := &stubSender{err: mailer.ErrNotConfigured}
	r := testRouter(sender)

	w := post(t, r, validRequest())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fallback_url")
}

func TestSubmitValidation(t *testing.T) {
	sender := &stubSender{}
	r := testRouter(sender)

	missing := validRequest()
	missing.Purpose = ""
	w := post(t, r, missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badEmail := validRequest()
	badEmail.Email = "not-an-email"
	w = post(t, r, badEmail)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badFormat := validRequest()
	badFormat.Format = "json"
	w = post(t, r, badFormat)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, sender.sent, "nothing may be sent for an invalid form")
}
