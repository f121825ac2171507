package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lhweb/site-backend/internal/http/middleware"
	"github.com/lhweb/site-backend/internal/observability/metrics"
	"github.com/lhweb/site-backend/internal/ratelimit"
	"github.com/lhweb/site-backend/pkg/logging"
)

var intakeTracer = otel.Tracer("lhweb.internal.leads")

// Notifier is told about accepted leads. The handler invokes it on a
// separate goroutine; a notification failure never fails the intake.
type Notifier interface {
	LeadAccepted(ctx context.Context, lead *Lead)
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo     Repository
	limiter  ratelimit.Limiter
	metrics  *metrics.LeadMetrics
	notifier Notifier
	logger   *logging.Logger
}

// NewHandler creates a new leads handler. metrics and notifier may be nil.
func NewHandler(repo Repository, limiter ratelimit.Limiter, m *metrics.LeadMetrics, notifier Notifier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		limiter:  limiter,
		metrics:  m,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit handles POST /leads.
//
// The rate-limit check runs before the body is parsed, so invalid
// submissions still consume quota. Nothing before the store call has a side
// effect besides that counter.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := intakeTracer.Start(r.Context(), "leads.submit")
	defer span.End()
	start := time.Now()

	identifier := clientIdentifier(r)

	allowed, err := h.limiter.Allow(ctx, identifier)
	if err != nil {
		// Fail open: a broken limiter backend should not drop real leads.
		h.logger.Error("rate limiter unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		h.metrics.ObserveSubmission("rate_limited")
		writeError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		h.metrics.ObserveSubmission("error")
		writeError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	fields, err := ValidateSubmission(req.Fields)
	if err != nil {
		h.metrics.ObserveSubmission(rejectionOutcome(err))
		writeError(w, http.StatusBadRequest, rejectionMessage(err))
		return
	}

	score := Score(fields)
	span.SetAttributes(attribute.Int("lead.score", score))

	lead := &NewLead{
		PagePath:    optional(req.PagePath),
		FormID:      defaultString(req.FormID, DefaultFormID),
		LeadType:    defaultString(req.LeadType, DefaultLeadType),
		LeadScore:   score,
		Fields:      fields,
		Attribution: req.Attribution,
		UserAgent:   defaultString(r.UserAgent(), UnknownValue),
		IP:          identifier,
	}

	id, err := h.repo.Create(ctx, lead)
	if err != nil {
		h.logger.Error("failed to create lead", "error", err)
		h.metrics.ObserveSubmission("error")
		writeError(w, http.StatusInternalServerError, "failed to store lead")
		return
	}

	h.metrics.ObserveSubmission("accepted")
	h.metrics.ObserveScore(score)
	h.metrics.ObserveIntakeLatency(time.Since(start).Seconds())
	h.logger.Info("lead created", "id", id, "score", score, "form_id", lead.FormID)

	if h.notifier != nil {
		stored := &Lead{
			ID:          id,
			PagePath:    lead.PagePath,
			FormID:      lead.FormID,
			LeadType:    lead.LeadType,
			Status:      StatusNew,
			LeadScore:   score,
			Fields:      fields,
			Attribution: lead.Attribution,
			UserAgent:   lead.UserAgent,
			IP:          lead.IP,
		}
		go h.notifier.LeadAccepted(context.WithoutCancel(ctx), stored)
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

// List handles GET /leads. The router guards it with admin auth.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= DefaultListLimit {
			limit = n
		}
	}

	items, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// UpdateStatus handles PATCH /leads/{id}. The status enum is checked here,
// before the store is invoked, so a bad value has no side effect.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("failed to update lead status", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}

	h.logger.Info("lead status updated", "id", id, "status", req.Status, "actor", adminActor(r))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// adminActor names the authenticated back-office user for the audit log.
func adminActor(r *http.Request) string {
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		return claims.Subject
	}
	return UnknownValue
}

// clientIdentifier derives the rate-limit identifier from proxy headers:
// first hop of X-Forwarded-For, then X-Real-Ip, then "unknown".
func clientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); rip != "" {
		return rip
	}
	return UnknownValue
}

func rejectionMessage(err error) string {
	switch err {
	case ErrBotDetected:
		return "Bot detected"
	case ErrMessageTooLong:
		return "Message too long"
	default:
		return "Invalid lead data"
	}
}

func rejectionOutcome(err error) string {
	switch err {
	case ErrBotDetected:
		return "bot"
	case ErrMessageTooLong:
		return "message_too_long"
	default:
		return "invalid"
	}
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
