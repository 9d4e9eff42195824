package leads

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/todalabs/toda-leads/internal/observability/metrics"
	"github.com/todalabs/toda-leads/pkg/logging"
)

var handlerTracer = otel.Tracer("toda.internal.leads.handler")

// ForceErrorHeader is a diagnostic-only header that short-circuits the
// endpoint into an internal error, for testing the failure UX. It is inert
// unless explicitly enabled in the handler config and must never be enabled
// in a deployed configuration.
const ForceErrorHeader = "x-force-error"

// maxBodyBytes caps how much of a request body the endpoint will read.
const maxBodyBytes = 64 << 10

// Notifier announces newly captured leads to operators.
type Notifier interface {
	NotifyNewLead(ctx context.Context, rec Record) error
}

// Response is the wire envelope returned by the lead endpoint.
type Response struct {
	OK          bool        `json:"ok"`
	FieldErrors FieldErrors `json:"fieldErrors,omitzero"`
	Message     string      `json:"message,omitempty"`
}

// Request carries everything the endpoint needs, independent of whether it
// arrived over net/http or an API Gateway event.
type Request struct {
	Method     string
	ForceError bool
	Body       []byte
}

// HandlerConfig holds dependencies for the lead endpoint handler.
type HandlerConfig struct {
	Store           Store
	Notifier        Notifier
	Metrics         *metrics.LeadMetrics
	Logger          *logging.Logger
	AllowForceError bool
}

// Handler is the lead endpoint: the authoritative validator and sole writer
// of lead records. It is stateless; every invocation is independent.
type Handler struct {
	store           Store
	notifier        Notifier
	metrics         *metrics.LeadMetrics
	logger          *logging.Logger
	allowForceError bool
	now             func() time.Time
}

// NewHandler creates a new lead endpoint handler
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:           cfg.Store,
		notifier:        cfg.Notifier,
		metrics:         cfg.Metrics,
		logger:          logger,
		allowForceError: cfg.AllowForceError,
		now:             time.Now,
	}
}

// SubmitLead handles POST /api/lead requests
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.logger.Error("failed to read request body", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{OK: false, Message: "Internal server error"})
		return
	}

	status, resp := h.Handle(r.Context(), Request{
		Method:     r.Method,
		ForceError: r.Header.Get(ForceErrorHeader) == "1",
		Body:       body,
	})
	writeJSON(w, status, resp)
}

// Handle runs the full validate-then-upsert flow and returns the status
// code and response envelope. Shared by the HTTP handler and the Lambda
// adapter.
func (h *Handler) Handle(ctx context.Context, req Request) (int, Response) {
	start := h.now()
	defer func() {
		h.metrics.ObserveHandlerLatency(time.Since(start).Seconds())
	}()

	ctx, span := handlerTracer.Start(ctx, "leads.handle")
	defer span.End()

	if req.ForceError && h.allowForceError {
		h.logger.Warn("forced error diagnostic triggered")
		h.metrics.ObserveSubmission("forced_error")
		return http.StatusInternalServerError, Response{OK: false, Message: "Internal server error (forced)"}
	}

	if req.Method != http.MethodPost {
		h.metrics.ObserveSubmission("method_not_allowed")
		return http.StatusMethodNotAllowed, Response{OK: false, Message: "Method not allowed"}
	}

	var sub Submission
	if err := json.Unmarshal(req.Body, &sub); err != nil {
		h.logger.Warn("malformed lead payload", "error", err)
		h.metrics.ObserveSubmission("bad_json")
		return http.StatusBadRequest, Response{
			OK:          false,
			FieldErrors: FieldErrors{},
			Message:     "Invalid JSON payload",
		}
	}

	sub.Normalize()
	if fieldErrors := sub.Validate(); len(fieldErrors) > 0 {
		h.metrics.ObserveSubmission("invalid")
		return http.StatusBadRequest, Response{
			OK:          false,
			FieldErrors: fieldErrors,
			Message:     "Bitte überprüfe deine Eingaben.",
		}
	}

	span.SetAttributes(attribute.String("lead.segment", sub.Segment))

	rec := sub.ToRecord(h.now())
	created, err := h.upsert(ctx, rec)
	if err != nil {
		// Upstream detail stays in the logs, never in the response.
		h.logger.Error("lead upsert failed", "error", err)
		h.metrics.ObserveSubmission("upstream_error")
		return http.StatusInternalServerError, Response{OK: false, Message: "Internal server error"}
	}

	if created && h.notifier != nil {
		if err := h.notifier.NotifyNewLead(ctx, rec); err != nil {
			h.logger.Error("lead notification failed", "error", err, "email", rec.Email)
		}
	}

	h.logger.Info("lead captured", "email", rec.Email, "created", created)
	h.metrics.ObserveSubmission("accepted")
	return http.StatusOK, Response{OK: true}
}

// upsert queries for an existing record by email and updates the first
// match, or inserts when none exists. The read-then-write is not
// transactional: two concurrent submissions for the same new email can both
// insert (an accepted consistency gap).
func (h *Handler) upsert(ctx context.Context, rec Record) (created bool, err error) {
	matches, err := h.store.FindByEmail(ctx, rec.Email)
	if err != nil {
		return false, err
	}

	if len(matches) > 0 {
		if len(matches) > 1 {
			h.logger.Warn("multiple records for email, updating first",
				"email", rec.Email,
				"count", len(matches),
			)
		}
		if err := h.store.Update(ctx, matches[0].ID, rec); err != nil {
			return false, err
		}
		h.metrics.ObserveUpsert("updated")
		return false, nil
	}

	if _, err := h.store.Create(ctx, rec); err != nil {
		return false, err
	}
	h.metrics.ObserveUpsert("created")
	return true, nil
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
