package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driven/mocks"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

// Mock services for testing

// mockDispatcher records dispatched events synchronously
type mockDispatcher struct {
	mu     sync.Mutex
	err    error
	events []*domain.InboundEvent
}

func (m *mockDispatcher) Dispatch(event *domain.InboundEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// queueDispatcher is a dispatcher that also reports readiness
type queueDispatcher struct {
	mockDispatcher
	health error
}

func (q *queueDispatcher) HealthCheck(ctx context.Context) error {
	return q.health
}

func (m *mockDispatcher) received() []*domain.InboundEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.InboundEvent(nil), m.events...)
}

type mockAdminService struct {
	ensureErr error
	deleteErr error
	health    map[string]error
	deleted   []string
	ensured   int
}

func (m *mockAdminService) EnsureIndex(ctx context.Context) error {
	m.ensured++
	return m.ensureErr
}

func (m *mockAdminService) DeleteDocument(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockAdminService) Health(ctx context.Context) map[string]error {
	return m.health
}

type mockAuthService struct{}

func (mockAuthService) IssueToken(ctx context.Context, subject string, role domain.Role, ttl time.Duration) (string, error) {
	return subject, nil
}

func (mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	switch token {
	case "admin-token":
		return &domain.AuthContext{Subject: "ops", Role: domain.RoleAdmin}, nil
	case "reader-token":
		return &domain.AuthContext{Subject: "bot", Role: domain.RoleReader}, nil
	case "expired-token":
		return nil, domain.ErrTokenExpired
	default:
		return nil, domain.ErrTokenInvalid
	}
}

// stubQuery answers every question with a fixed text and posts it
type stubQuery struct {
	notifier driven.Notifier
}

func (q stubQuery) Answer(ctx context.Context, thread domain.Thread, rawText string) domain.AnswerResult {
	if rawText == "" {
		_ = q.notifier.Post(ctx, thread.Channel, "The question is empty. What would you like to know?", thread.ThreadRef)
		return domain.AnswerResult{Outcome: domain.OutcomeEmptyQuestion}
	}
	_ = q.notifier.Post(ctx, thread.Channel, "42", thread.ThreadRef)
	return domain.AnswerResult{Question: rawText, Answer: "42", Outcome: domain.OutcomeAnswered}
}

type testServer struct {
	server  *Server
	events  *mockDispatcher
	admin   *mockAdminService
	metrics *mocks.MockMetrics
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()

	ts := &testServer{
		events:  &mockDispatcher{},
		admin:   &mockAdminService{health: map[string]error{"index": nil, "dedup": nil}},
		metrics: mocks.NewMockMetrics(),
	}

	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.SlackSigningSecret = secret

	ts.server = NewServer(cfg, Deps{
		Events: ts.events,
		Admin:  ts.admin,
		Auth:   mockAuthService{},
		AdminQuery: func(n driven.Notifier) driving.QueryService {
			return stubQuery{notifier: n}
		},
		Metrics:        ts.metrics,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("metrics")) }),
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func signedRequest(t *testing.T, secret string, body []byte) *http.Request {
	t.Helper()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)

	req := httptest.NewRequest(http.MethodPost, "/api/slack/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHandleVersion(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", decodeBody(t, rec)["version"])
}

func TestHandleReady(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeBody(t, rec)["status"])

	ts.admin.health["index"] = errors.New("connection refused")
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "connection refused", checks["index"])
	assert.Equal(t, "ok", checks["dedup"])
}

func TestHandleReady_IncludesDispatcherHealth(t *testing.T) {
	dispatcher := &queueDispatcher{}
	server := NewServer(DefaultConfig(), Deps{Events: dispatcher})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["checks"].(map[string]interface{})["events"])

	dispatcher.health = errors.New("event queue is full")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "event queue is full", body["checks"].(map[string]interface{})["events"])
}

func TestHandleMetrics(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}

// Slack events

func TestSlackEvents_URLVerification(t *testing.T) {
	ts := newTestServer(t, testSigningSecret)
	body := []byte(`{"type":"url_verification","token":"x","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P"}`)

	rec := ts.do(signedRequest(t, testSigningSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", decodeBody(t, rec)["challenge"])
}

func TestSlackEvents_InvalidSignature(t *testing.T) {
	ts := newTestServer(t, testSigningSecret)
	body := []byte(`{"type":"url_verification","challenge":"abc"}`)

	rec := ts.do(signedRequest(t, "some-other-secret", body))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	unsigned := httptest.NewRequest(http.MethodPost, "/api/slack/events", bytes.NewReader(body))
	rec = ts.do(unsigned)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSlackEvents_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, testSigningSecret)

	rec := ts.do(signedRequest(t, testSigningSecret, []byte(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlackEvents_AppMention(t *testing.T) {
	ts := newTestServer(t, testSigningSecret)
	body := []byte(`{
		"type": "event_callback",
		"event_id": "Ev123",
		"event": {
			"type": "app_mention",
			"user": "U111",
			"text": "<@U0BOT> please index",
			"channel": "C123",
			"ts": "1700000000.000100",
			"files": [{"id": "F1", "name": "Handbook.PDF", "filetype": "PDF"}]
		}
	}`)

	rec := ts.do(signedRequest(t, testSigningSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "accepted", decodeBody(t, rec)["status"])

	events := ts.events.received()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "Ev123", e.EventID)
	assert.Equal(t, "<@U0BOT> please index", e.Text)
	assert.Equal(t, domain.Thread{Channel: "C123", ThreadRef: "1700000000.000100"}, e.Thread())
	require.Len(t, e.Attachments, 1)
	assert.Equal(t, domain.Attachment{Ref: "F1", Name: "Handbook.PDF", DeclaredType: "pdf"}, e.Attachments[0])
}

func TestSlackEvents_Ignored(t *testing.T) {
	ts := newTestServer(t, "")

	testCases := []struct {
		name string
		body string
	}{
		{"bot message", `{"type":"event_callback","event_id":"Ev1","event":{"type":"app_mention","bot_id":"B1","text":"hi","channel":"C1","ts":"1.0"}}`},
		{"other inner event", `{"type":"event_callback","event_id":"Ev2","event":{"type":"message","text":"hi","channel":"C1","ts":"1.0"}}`},
		{"rate limit notice", `{"type":"app_rate_limited","minute_rate_limited":1518467820}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/slack/events", bytes.NewReader([]byte(tc.body)))
			rec := ts.do(req)
		
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ignored", decodeBody(t, rec)["status"])
		})
	}

	assert.Empty(t, ts.events.received())
}

func TestSlackEvents_QueueFull(t *testing.T) {
	ts := newTestServer(t, "")
	ts.events.err = errors.New("event queue is full")

	body := `{"type":"event_callback","event_id":"Ev9","event":{"type":"app_mention","text":"hi","channel":"C1","ts":"1.0"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/slack/events", bytes.NewReader([]byte(body)))
	rec := ts.do(req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, ts.events.received())
}

// Admin endpoints

func TestAdmin_RequiresToken(t *testing.T) {
	ts := newTestServer(t, "")

	testCases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"invalid", "garbage", http.StatusUnauthorized},
		{"expired", "expired-token", http.StatusUnauthorized},
		{"reader", "reader-token", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/index", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := ts.do(req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "forbidden: admin access required", decodeBody(t, rec)["error"])
			}
		})
	}

	assert.Zero(t, ts.admin.ensured)
}

func TestAdmin_EnsureIndex(t *testing.T) {
	ts := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/index", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := ts.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.admin.ensured)

	ts.admin.ensureErr = errors.New("deploy failed")
	rec = ts.do(req.Clone(context.Background()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdmin_DeleteDocument(t *testing.T) {
	ts := newTestServer(t, "")

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/documents/doc-1", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		return ts.do(req)
	}

	assert.Equal(t, http.StatusNoContent, del().Code)
	assert.Equal(t, []string{"doc-1"}, ts.admin.deleted)

	ts.admin.deleteErr = fmt.Errorf("failed to delete document doc-1: %w", domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, del().Code)

	ts.admin.deleteErr = errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, del().Code)
}

func TestAdmin_Query(t *testing.T) {
	ts := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/query", bytes.NewReader([]byte(`{"question":"meaning of life?"}`)))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "42", body["answer"])
	assert.Equal(t, "answered", body["outcome"])
	assert.Equal(t, "42", body["notice"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/query", bytes.NewReader([]byte(`{"question":""}`)))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The question is empty. What would you like to know?", decodeBody(t, rec)["notice"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/query", bytes.NewReader([]byte(`nope`)))
	req.Header.Set("Authorization", "Bearer admin-token")
	assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, ts.metrics.Requests["GET unmatched 404"])
}
