package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/pkg/logging"
)

var tracer = otel.Tracer("toda.internal.airtable")

const (
	defaultBaseURL  = "https://api.airtable.com"
	defaultTimeout  = 20 * time.Second
	maxQueryRecords = 10
)

// Config holds the addressing and credentials for one Airtable table.
type Config struct {
	BaseID    string
	TableName string
	APIKey    string

	// BaseURL overrides the API host, for tests.
	BaseURL string
}

// MissingVars names the unset configuration values, without leaking any
// of the set ones.
func (c Config) MissingVars() []string {
	var missing []string
	if strings.TrimSpace(c.BaseID) == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if strings.TrimSpace(c.TableName) == "" {
		missing = append(missing, "AIRTABLE_TABLE_NAME")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "AIRTABLE_API_KEY")
	}
	return missing
}

// Client talks to the Airtable REST API for a single base and table.
// It implements leads.Store.
type Client struct {
	baseURL    string
	baseID     string
	tableName  string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a new Airtable client.
func New(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		baseID:    cfg.BaseID,
		tableName: cfg.TableName,
		apiKey:    cfg.APIKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

var _ leads.Store = (*Client)(nil)

type recordFields struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	Segment          string `json:"segment"`
	RevenueRange     string `json:"revenue_range"`
	MarketingConsent bool   `json:"marketing_consent"`
	ConsentTimestamp string `json:"consent_timestamp"`
}

type listResponse struct {
	Records []struct {
		ID     string       `json:"id"`
		Fields recordFields `json:"fields"`
	} `json:"records"`
}

type createRequest struct {
	Records []struct {
		Fields recordFields `json:"fields"`
	} `json:"records"`
	Typecast bool `json:"typecast"`
}

type createResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}

type updateRequest struct {
	Fields   recordFields `json:"fields"`
	Typecast bool         `json:"typecast"`
}

// FindByEmail queries the table with a filterByFormula for an exact email
// match. The email is escaped before being embedded in the formula literal
// to prevent query injection.
func (c *Client) FindByEmail(ctx context.Context, email string) ([]leads.StoredRecord, error) {
	ctx, span := tracer.Start(ctx, "airtable.find_by_email")
	defer span.End()

	query := url.Values{}
	query.Set("filterByFormula", fmt.Sprintf(`{email}="%s"`, escapeFormulaString(email)))
	query.Set("maxRecords", fmt.Sprint(maxQueryRecords))

	var out listResponse
	if err := c.do(ctx, http.MethodGet, c.tableURL()+"?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("airtable.matches", len(out.Records)))

	matches := make([]leads.StoredRecord, 0, len(out.Records))
	for _, r := range out.Records {
		matches = append(matches, leads.StoredRecord{
			ID:    r.ID,
			Email: r.Fields.Email,
			Name:  r.Fields.Name,
		})
	}
	return matches, nil
}

// Create inserts a new record and returns its Airtable record ID.
func (c *Client) Create(ctx context.Context, rec leads.Record) (string, error) {
	ctx, span := tracer.Start(ctx, "airtable.create")
	defer span.End()

	req := createRequest{Typecast: true}
	req.Records = append(req.Records, struct {
		Fields recordFields `json:"fields"`
	}{Fields: toFields(rec)})

	var out createResponse
	if err := c.do(ctx, http.MethodPost, c.tableURL(), req, &out); err != nil {
		return "", err
	}
	if len(out.Records) == 0 || out.Records[0].ID == "" {
		return "", fmt.Errorf("airtable: create returned no record id")
	}
	return out.Records[0].ID, nil
}

// Update overwrites the fields of an existing record.
func (c *Client) Update(ctx context.Context, id string, rec leads.Record) error {
	ctx, span := tracer.Start(ctx, "airtable.update")
	defer span.End()

	req := updateRequest{Fields: toFields(rec), Typecast: true}
	return c.do(ctx, http.MethodPatch, c.tableURL()+"/"+url.PathEscape(id), req, nil)
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(c.tableName))
}

func (c *Client) do(ctx context.Context, method, rawURL string, in, out any) error {
	if missing := (Config{BaseID: c.baseID, TableName: c.tableName, APIKey: c.apiKey}).MissingVars(); len(missing) > 0 {
		return fmt.Errorf("airtable: missing configuration: %s", strings.Join(missing, ", "))
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("airtable: marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("airtable: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("airtable: %w: %w", leads.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("airtable: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("airtable: status %d: %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("airtable: unmarshal response: %w", err)
		}
	}
	return nil
}

func toFields(rec leads.Record) recordFields {
	return recordFields{
		Email:            rec.Email,
		Name:             rec.Name,
		Segment:          rec.Segment,
		RevenueRange:     rec.RevenueRange,
		MarketingConsent: rec.MarketingConsent,
		ConsentTimestamp: rec.ConsentTimestamp.UTC().Format(time.RFC3339),
	}
}

// escapeFormulaString escapes backslashes and both quote styles so the
// value can sit inside a double-quoted Airtable formula literal.
func escapeFormulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
