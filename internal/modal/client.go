package modal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/pkg/logging"
)

// Result is the typed outcome of one submission round trip. Transport
// failure (Err set) is kept apart from application-level rejection
// (OK false with a parsed Response).
type Result struct {
	OK     bool
	Status int

	// Response is the parsed endpoint envelope; nil when the body could
	// not be parsed.
	Response *leads.Response

	// Err is set only for transport-level failures.
	Err error
}

// LeadClient drives the round trip to the lead endpoint.
type LeadClient interface {
	SubmitLead(ctx context.Context, sub leads.Submission) Result
}

// HTTPLeadClient posts submissions as JSON to the lead endpoint.
type HTTPLeadClient struct {
	endpoint   string
	httpClient *http.Client
	forceError bool
	logger     *logging.Logger
}

// NewHTTPLeadClient creates a client for the given endpoint URL. forceError
// attaches the diagnostic header to every request (development aid only).
func NewHTTPLeadClient(endpoint string, forceError bool, logger *logging.Logger) *HTTPLeadClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPLeadClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		forceError: forceError,
		logger:     logger,
	}
}

// SubmitLead sends one submission and tolerates an unparsable response body.
// No retries are attempted.
func (c *HTTPLeadClient) SubmitLead(ctx context.Context, sub leads.Submission) Result {
	body, err := json.Marshal(sub)
	if err != nil {
		return Result{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.forceError {
		req.Header.Set(leads.ForceErrorHeader, "1")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("lead submission request failed", "error", err)
		return Result{Err: err}
	}
	defer resp.Body.Close()

	result := Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return result
	}

	var envelope leads.Response
	if err := json.Unmarshal(respBody, &envelope); err == nil {
		result.Response = &envelope
	}
	return result
}
