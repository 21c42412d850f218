package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// maxEventBodyBytes caps inbound Slack payloads
const maxEventBodyBytes = 1 << 20

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 when the index, the dedup store or the event queue
// is unavailable
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]error)
	if s.adminService != nil {
		for name, err := range s.adminService.Health(r.Context()) {
			results[name] = err
		}
	}
	if hc, ok := s.dispatcher.(healthChecker); ok {
		results["events"] = hc.HealthCheck(r.Context())
	}
	if len(results) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	checks := make(map[string]string)
	ready := true
	for name, err := range results {
		if err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// healthChecker is implemented by dispatchers that can report readiness
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Slack Events API

// slackEnvelope is the outer Events API payload
type slackEnvelope struct {
	Type      string     `json:"type"`
	Challenge string     `json:"challenge"`
	EventID   string     `json:"event_id"`
	Event     slackEvent `json:"event"`
}

type slackEvent struct {
	Type     string      `json:"type"`
	User     string      `json:"user"`
	BotID    string      `json:"bot_id"`
	Text     string      `json:"text"`
	Channel  string      `json:"channel"`
	TS       string      `json:"ts"`
	ThreadTS string      `json:"thread_ts"`
	Files    []slackFile `json:"files"`
}

type slackFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileType string `json:"filetype"`
}

// toInboundEvent maps an app_mention payload to the domain event.
// Replies thread under the mention itself.
func (e slackEnvelope) toInboundEvent() *domain.InboundEvent {
	event := &domain.InboundEvent{
		EventID:   e.EventID,
		Text:      e.Event.Text,
		Channel:   e.Event.Channel,
		ThreadRef: e.Event.TS,
	}
	for _, f := range e.Event.Files {
		event.Attachments = append(event.Attachments, domain.Attachment{
			Ref:          f.ID,
			Name:         f.Name,
			DeclaredType: strings.ToLower(f.FileType),
		})
	}
	return event
}

// handleSlackEvents verifies Events API deliveries and hands mentions to the
// dispatcher. With the inline dispatcher the response waits for handling;
// with the worker pool it returns once the event is queued.
func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := s.verifySlackSignature(r.Header, body); err != nil {
		s.logger.Warn("rejected slack request", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusForbidden, "invalid signature")
		return
	}

	var envelope slackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch envelope.Type {
	case slackevents.URLVerification:
		writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return
	case slackevents.CallbackEvent:
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if envelope.Event.Type != string(slackevents.AppMention) || envelope.Event.BotID != "" || s.dispatcher == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	event := envelope.toInboundEvent()
	s.logger.Info("slack mention received",
		"event_id", event.EventID,
		"channel", event.Channel,
		"attachments", len(event.Attachments),
		"retry", r.Header.Get("X-Slack-Retry-Num"),
		"request_id", GetRequestID(r.Context()))

	if err := s.dispatcher.Dispatch(event); err != nil {
		// Slack redelivers on non-2xx; the event was never marked seen.
		s.logger.Warn("event not queued", "event_id", event.EventID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "event queue unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) verifySlackSignature(header http.Header, body []byte) error {
	if s.signingSecret == "" {
		return nil
	}
	sv, err := slackapi.NewSecretsVerifier(header, s.signingSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

// Admin endpoints

func (s *Server) handleEnsureIndex(w http.ResponseWriter, r *http.Request) {
	if s.adminService == nil {
		writeError(w, http.StatusServiceUnavailable, "index admin not configured")
		return
	}
	if err := s.adminService.EnsureIndex(r.Context()); err != nil {
		s.logger.Error("index provisioning failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to provision index")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.adminService == nil {
		writeError(w, http.StatusServiceUnavailable, "index admin not configured")
		return
	}

	id := r.PathValue("id")
	err := s.adminService.DeleteDocument(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "document id is required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	default:
		s.logger.Error("document delete failed", "document_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
	}
}

// AdminQueryRequest is the body of POST /api/v1/admin/query
type AdminQueryRequest struct {
	Question string `json:"question"`
}

// AdminQueryResponse carries the answer and the notice that would have
// been posted to chat
type AdminQueryResponse struct {
	domain.AnswerResult
	Notice string `json:"notice,omitempty"`
}

// noticeRecorder keeps posted notices instead of sending them
type noticeRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (n *noticeRecorder) Post(_ context.Context, _, text, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *noticeRecorder) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.texts) == 0 {
		return ""
	}
	return n.texts[len(n.texts)-1]
}

func (s *Server) handleAdminQuery(w http.ResponseWriter, r *http.Request) {
	if s.adminQuery == nil {
		writeError(w, http.StatusServiceUnavailable, "query not configured")
		return
	}

	var req AdminQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recorder := &noticeRecorder{}
	result := s.adminQuery(recorder).Answer(r.Context(), domain.Thread{}, req.Question)

	status := http.StatusOK
	if result.Outcome == domain.OutcomeEmptyQuestion {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, AdminQueryResponse{AnswerResult: result, Notice: recorder.last()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
