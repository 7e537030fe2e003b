package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/pawcare/backend/internal/app/service/webhook"
)

type stubProcessor struct {
	ingestRes  *webhook.IngestResult
	ingestErr  error
	batchRes   *webhook.BatchResult
	batchErr   error
	scanRes    *webhook.ScanEventsResponse
	scanErr    error
	gotBody    []byte
	gotSig     string
	gotScanReq *webhook.ScanEventsRequest
}

func (s *stubProcessor) Ingest(_ context.Context, payload []byte, signature string) (*webhook.IngestResult, error) {
	s.gotBody, s.gotSig = payload, signature
	return s.ingestRes, s.ingestErr
}

func (s *stubProcessor) ProcessPending(context.Context) (*webhook.BatchResult, error) {
	return s.batchRes, s.batchErr
}

func (s *stubProcessor) ScanEvents(_ context.Context, req *webhook.ScanEventsRequest) (*webhook.ScanEventsResponse, error) {
	s.gotScanReq = req
	return s.scanRes, s.scanErr
}

func newWebhookRouter(p webhook.Processor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r.Group("/api/webhook_events"), p)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestApiWebhookIngest_Statuses(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	cases := []struct {
		name   string
		stub   *stubProcessor
		status int
		msg    string
	}{
		{
			name:   "stored",
			stub:   &stubProcessor{ingestRes: &webhook.IngestResult{EventID: "evt_1"}},
			status: http.StatusOK,
			msg:    "webhook event stored",
		},
		{
			name: "stored with failed reconciliation",
			stub: &stubProcessor{ingestRes: &webhook.IngestResult{
				EventID: "evt_1",
				Outcome: lo.ToPtr(webhook.Failed(errors.New("boom"))),
			}},
			status: http.StatusOK,
			msg:    "webhook event stored",
		},
		{
			name:   "duplicate",
			stub:   &stubProcessor{ingestRes: &webhook.IngestResult{EventID: "evt_1", Duplicate: true}},
			status: http.StatusOK,
			msg:    "webhook event already recorded",
		},
		{
			name:   "bad signature",
			stub:   &stubProcessor{ingestErr: fmt.Errorf("%w: no match", webhook.ErrInvalidSignature)},
			status: http.StatusBadRequest,
			msg:    "invalid signature",
		},
		{
			name:   "malformed",
			stub:   &stubProcessor{ingestErr: webhook.ErrMalformedEvent},
			status: http.StatusInternalServerError,
			msg:    "webhook processing failed",
		},
		{
			name:   "storage down",
			stub:   &stubProcessor{ingestErr: errors.New("connection refused")},
			status: http.StatusInternalServerError,
			msg:    "webhook processing failed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newWebhookRouter(tc.stub)
			req := httptest.NewRequest(http.MethodPost, "/api/webhook_events/", bytes.NewReader(body))
			req.Header.Set("Stripe-Signature", "t=1,v1=abc")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.msg, decodeEnvelope(t, w)["message"])
			require.Equal(t, body, tc.stub.gotBody)
			require.Equal(t, "t=1,v1=abc", tc.stub.gotSig)
		})
	}
}

func TestApiWebhookIngest_FailedOutcomeHidesCause(t *testing.T) {
	out := webhook.Failed(errors.New(`pq: duplicate key value violates unique constraint "idx_payments_provider_session_id"`))
	r := newWebhookRouter(&stubProcessor{ingestRes: &webhook.IngestResult{EventID: "evt_1", Outcome: &out}})
	req := httptest.NewRequest(http.MethodPost, "/api/webhook_events/", bytes.NewReader([]byte(`{"id":"evt_1","type":"checkout.session.completed"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"kind":"failed"`)
	require.NotContains(t, w.Body.String(), "duplicate key")
	require.NotContains(t, w.Body.String(), "reason")
}

func TestApiWebhookIngest_DuplicateFlagInBody(t *testing.T) {
	r := newWebhookRouter(&stubProcessor{ingestRes: &webhook.IngestResult{EventID: "evt_1", Duplicate: true}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/webhook_events/", bytes.NewReader([]byte(`{}`))))

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	require.Equal(t, true, data["duplicate"])
	require.Equal(t, "evt_1", data["event_id"])
}

func TestApiWebhookIngest_BodyTooLarge(t *testing.T) {
	stub := &stubProcessor{ingestRes: &webhook.IngestResult{}}
	r := newWebhookRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/webhook_events/", bytes.NewReader(make([]byte, maxWebhookBodyBytes+1))))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Nil(t, stub.gotBody)
}

func TestApiWebhookProcess(t *testing.T) {
	cases := []struct {
		name   string
		stub   *stubProcessor
		status int
		msg    string
	}{
		{"none pending", &stubProcessor{batchRes: &webhook.BatchResult{}}, http.StatusOK, "no unprocessed webhook events"},
		{"some reconciled", &stubProcessor{batchRes: &webhook.BatchResult{Total: 3, Reconciled: 1, Skipped: 2}}, http.StatusOK, "1 webhook events reconciled"},
		{"aborted", &stubProcessor{batchErr: errors.New("deadlock")}, http.StatusInternalServerError, "webhook event processing failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newWebhookRouter(tc.stub)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/webhook_events/process", nil))
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.msg, decodeEnvelope(t, w)["message"])
		})
	}
}

func TestApiListWebhookEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubProcessor{scanRes: &webhook.ScanEventsResponse{Total: 0}}
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/admin"), stub)

	body := `{"filters":[{"field":"processed","operator":"eq","values":[false]}],"size":20,"sort_by":"created_at"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/webhook_events/list", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.gotScanReq.Filters, 1)
	require.Equal(t, "processed", stub.gotScanReq.Filters[0].Field)
	require.Equal(t, 20, stub.gotScanReq.Size)

	stub.scanErr = fmt.Errorf("%w: nope", webhook.ErrInvalidFilter)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/webhook_events/list", bytes.NewReader([]byte(`{}`))))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/webhook_events/list", bytes.NewReader([]byte(`{`))))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
