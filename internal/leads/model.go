package leads

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern is the shared client/server shape check: one or more
// non-whitespace, non-@ characters, "@", a domain part containing a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Segments is the closed set of accepted audience segments. These mirror
// the chip group on the landing page.
var Segments = []string{"Studio", "Salon", "Mobil", "Andere"}

// RevenueRanges is the closed set of canonical monthly revenue buckets.
var RevenueRanges = []string{"< 1500", "1500 - 5000", "5000 +"}

// Submission is the lead payload sent by the signup modal.
type Submission struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Segment          string `json:"segment,omitempty"`
	RevenueRange     string `json:"revenue_range,omitempty"`
	MarketingConsent bool   `json:"marketing_consent"`
}

// FieldErrors maps a field name to a human-readable error message.
// An empty mapping means the submission is valid.
type FieldErrors map[string]string

// Record is what gets written to the external store for one lead,
// keyed by the lower-cased email.
type Record struct {
	Email            string
	Name             string
	Segment          string
	RevenueRange     string
	MarketingConsent bool
	ConsentTimestamp time.Time
}

// StoredRecord is a record as read back from the store.
type StoredRecord struct {
	ID    string
	Email string
	Name  string
}

// ValidEmail reports whether the email matches the accepted shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Normalize trims name and email, lower-cases the email and collapses a
// legacy revenue range onto its canonical bucket. Must run before Validate.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Segment = strings.TrimSpace(s.Segment)
	if normalized, ok := NormalizeRevenueRange(s.RevenueRange); ok {
		s.RevenueRange = normalized
	} else {
		s.RevenueRange = strings.TrimSpace(s.RevenueRange)
	}
}

// Validate re-derives every constraint independently of the client.
func (s *Submission) Validate() FieldErrors {
	errs := FieldErrors{}

	if s.Name == "" {
		errs["name"] = "Bitte gib deinen Namen an."
	}
	if s.Email == "" || !emailPattern.MatchString(s.Email) {
		errs["email"] = "Bitte gib eine gültige Email an."
	}
	if !s.MarketingConsent {
		errs["marketing_consent"] = "Bitte bestätige dein Einverständnis."
	}
	if s.Segment != "" && !contains(Segments, s.Segment) {
		errs["segment"] = "Bitte wähle ein gültiges Segment."
	}
	if s.RevenueRange != "" && !contains(RevenueRanges, s.RevenueRange) {
		errs["revenue_range"] = "Bitte wähle einen gültigen Umsatzbereich."
	}

	return errs
}

// NormalizeRevenueRange collapses legacy bucket labels that use "." as a
// thousands separator (e.g. "1.500 - 5.000") onto the canonical form
// ("1500 - 5000"). Empty input normalizes to empty. Non-empty input that
// does not land on a canonical bucket is reported as not ok.
func NormalizeRevenueRange(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}

	candidate := strings.ReplaceAll(trimmed, ".", "")
	candidate = strings.Join(strings.Fields(candidate), " ")

	if contains(RevenueRanges, candidate) {
		return candidate, true
	}
	return trimmed, false
}

// ToRecord builds the store record for a validated submission. The consent
// timestamp is stamped by the caller at write time.
func (s *Submission) ToRecord(consentAt time.Time) Record {
	return Record{
		Email:            s.Email,
		Name:             s.Name,
		Segment:          s.Segment,
		RevenueRange:     s.RevenueRange,
		MarketingConsent: true,
		ConsentTimestamp: consentAt.UTC(),
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
