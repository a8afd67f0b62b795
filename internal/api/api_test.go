package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/internal/services"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	submitErr error
	sub       *models.Submission
	received  *models.CreateCheckRequest
}

func (f *fakeGateway) SubmitCheck(_ context.Context, req *models.CreateCheckRequest) (*models.Submission, error) {
	f.received = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.sub, nil
}

func (f *fakeGateway) GetSubmission(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	if f.sub == nil || f.sub.ID != id {
		return nil, services.ErrSubmissionNotFound
	}
	return f.sub, nil
}

func (f *fakeGateway) RefreshTask(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := f.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.State = models.SubmissionStateDone
	return sub, nil
}

func (f *fakeGateway) RenderReceipt(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := f.GetSubmission(ctx, id); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.3 fake"), nil
}

func (f *fakeGateway) QueueStatus(_ context.Context, qid string) (string, bool, error) {
	if qid == "broken" {
		return "", false, &client.APIError{Kind: client.KindServer, StatusCode: 500, Title: "Internal"}
	}
	return qid, qid != "0", nil
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(context.Context) error {
	return f.err
}

func newTestRouter(t *testing.T, gw *fakeGateway, apiKey string) (*API, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a := NewAPI(gw, apiKey, logger)
	return a, NewRouter(a, RouterOptions{})
}

func perform(router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validBody() map[string]any {
	return map[string]any{
		"external_id": "order-1",
		"intent":      "sell",
		"company":     map[string]any{"payment_address": "shop.example.ru", "sno": 0},
		"positions":   []any{map[string]any{"name": "Tea", "price": 100, "vat": "20"}},
		"payments":    []any{map[string]any{"sum": 100, "type": "card"}},
	}
}

func sampleSubmission() *models.Submission {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Submission{
		ID:         uuid.New(),
		Kind:       models.SubmissionKindCheck,
		ExternalID: "order-1",
		QueueID:    "1",
		TaskID:     "42",
		State:      models.SubmissionStateNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateCheck(t *testing.T) {
	gw := &fakeGateway{sub: sampleSubmission()}
	_, router := newTestRouter(t, gw, "")

	rec := perform(router, http.MethodPost, "/v1/checks", validBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gw.sub.ID, resp.ID)
	assert.Equal(t, "42", resp.TaskID)

	require.NotNil(t, gw.received)
	assert.Equal(t, "sell", gw.received.Intent)
	assert.Equal(t, "20", gw.received.Positions[0].VAT)
}

func TestCreateCheckNumericVAT(t *testing.T) {
	for _, rate := range []int{0, 18, 118} {
		gw := &fakeGateway{sub: sampleSubmission()}
		_, router := newTestRouter(t, gw, "")

		body := validBody()
		body["positions"] = []any{map[string]any{"name": "Tea", "price": 100, "vat": rate}}

		rec := perform(router, http.MethodPost, "/v1/checks", body, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NotNil(t, gw.received)

		_, _, err := services.BuildCheck(gw.received)
		assert.NoError(t, err, "vat %d", rate)
	}
}

func TestCreateCheckErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		err    error
		status int
		code   models.ErrorCode
	}{
		{
			name:   "missing positions",
			body:   map[string]any{"intent": "sell", "company": map[string]any{"payment_address": "x"}, "payments": []any{map[string]any{"sum": 1}}},
			status: http.StatusBadRequest,
			code:   models.ErrorCodeInvalidRequest,
		},
		{
			name:   "validation",
			err:    &services.ValidationError{Field: "intent", Issue: "unknown intent"},
			status: http.StatusUnprocessableEntity,
			code:   models.ErrorCodeInvalidRequest,
		},
		{
			name:   "duplicate",
			err:    services.ErrDuplicateSubmission,
			status: http.StatusConflict,
			code:   models.ErrorCodeConflict,
		},
		{
			name:   "in progress",
			err:    services.ErrSubmissionInProgress,
			status: http.StatusConflict,
			code:   models.ErrorCodeConflict,
		},
		{
			name:   "upstream",
			err:    &client.APIError{Kind: client.KindValidation, StatusCode: 422, Title: "Validation error", Description: "Check has no positions"},
			status: http.StatusBadGateway,
			code:   models.ErrorCodeUpstream,
		},
		{
			name:   "internal",
			err:    errors.New("db down"),
			status: http.StatusInternalServerError,
			code:   models.ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{submitErr: tt.err}
			_, router := newTestRouter(t, gw, "")

			body := tt.body
			if body == nil {
				body = validBody()
			}
			rec := perform(router, http.MethodPost, "/v1/checks", body, nil)
			assert.Equal(t, tt.status, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Error.Code)
		})
	}
}

func TestGetAndRefreshCheck(t *testing.T) {
	gw := &fakeGateway{sub: sampleSubmission()}
	_, router := newTestRouter(t, gw, "")

	rec := perform(router, http.MethodGet, "/v1/checks/"+gw.sub.ID.String(), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPost, "/v1/checks/"+gw.sub.ID.String()+"/refresh", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.SubmissionStateDone, resp.State)

	rec = perform(router, http.MethodGet, "/v1/checks/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(router, http.MethodGet, "/v1/checks/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReceipt(t *testing.T) {
	gw := &fakeGateway{sub: sampleSubmission()}
	_, router := newTestRouter(t, gw, "")

	rec := perform(router, http.MethodGet, "/v1/checks/"+gw.sub.ID.String()+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestGetQueue(t *testing.T) {
	_, router := newTestRouter(t, &fakeGateway{}, "")

	rec := perform(router, http.MethodGet, "/v1/queues/7", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue_id":"7","active":true}`, rec.Body.String())

	rec = perform(router, http.MethodGet, "/v1/queues/broken", nil, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAPIKeyMiddleware(t *testing.T) {
	gw := &fakeGateway{sub: sampleSubmission()}
	_, router := newTestRouter(t, gw, "secret-key")
	path := "/v1/checks/" + gw.sub.ID.String()

	rec := perform(router, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(router, http.MethodGet, path, nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(router, http.MethodGet, path, nil, map[string]string{"X-API-Key": "secret-key"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	a, router := newTestRouter(t, &fakeGateway{}, "")
	a.AddHealthCheck("database", fakeChecker{})

	rec := perform(router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	a.AddHealthCheck("redis", fakeChecker{err: errors.New("connection refused")})
	rec = perform(router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"database": "ok", "redis": "down"}, body["dependencies"])
}
