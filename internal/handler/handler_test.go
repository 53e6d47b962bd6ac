package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/consensus"
	"github.com/trinnode/AfriHealthv2-sub003/internal/relay"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := topics.NewRegistry()
	require.NoError(t, registry.Register(topics.Consent, "0.0.1001"))
	require.NoError(t, registry.Register(topics.Billing, "0.0.1002"))

	network := consensus.NewNetwork()
	publisher := relay.NewPublisher(registry, network, events.NewJSONEventSerializer(), 1024, slog.Default())
	h := NewHandler(registry, publisher)

	router := gin.New()
	router.GET("/healthz", h.Health)
	router.GET("/v1/topics", h.ListTopics)
	router.POST("/v1/topics/:name/messages", h.PublishMessages)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTopics(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/v1/topics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"topics":[
		{"name":"billing","id":"0.0.1002"},
		{"name":"consent","id":"0.0.1001"}
	]}`, rec.Body.String())
}

func TestPublishSingleRecord(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"type": "consent.granted.v1",
		"payload": {"patient_id": "p-1", "provider_id": "pr-9", "scope": "treatment"},
		"metadata": {"request_id": "req-1"}
	}`
	rec := doRequest(router, http.MethodPost, "/v1/topics/consent/messages", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Body.String(), `"sequence_number":1`)
	assert.Contains(t, rec.Body.String(), `"topic_id":"0.0.1001"`)
	assert.Contains(t, rec.Body.String(), `"event_id"`)
}

func TestPublishBatch(t *testing.T) {
	router := newTestRouter(t)

	body := `[
		{"type": "billing.invoice.issued.v1", "payload": {"invoice_id": "inv-1", "patient_id": "p-1"}},
		{"type": "billing.invoice.paid.v1", "payload": {"invoice_id": "inv-1"}}
	]`
	rec := doRequest(router, http.MethodPost, "/v1/topics/billing/messages", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Body.String(), `"sequence_number":1`)
	assert.Contains(t, rec.Body.String(), `"sequence_number":2`)
}

func TestPublishUnknownTopic(t *testing.T) {
	router := newTestRouter(t)

	body := `{"type": "consent.granted.v1", "payload": {}}`
	rec := doRequest(router, http.MethodPost, "/v1/topics/lab-results/messages", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublishUnknownEventType(t *testing.T) {
	router := newTestRouter(t)

	body := `{"type": "consent.superseded.v9", "payload": {}}`
	rec := doRequest(router, http.MethodPost, "/v1/topics/consent/messages", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishOversizedPayload(t *testing.T) {
	router := newTestRouter(t)

	scope := strings.Repeat("x", 2048)
	body := `{"type": "consent.granted.v1", "payload": {"patient_id": "p-1", "scope": "` + scope + `"}}`
	rec := doRequest(router, http.MethodPost, "/v1/topics/consent/messages", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPublishInvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/v1/topics/consent/messages", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishMissingType(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/v1/topics/consent/messages", `{"payload": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
