package leads

import (
	"testing"
	"time"
)

func TestValidateFlagsMissingFields(t *testing.T) {
	sub := Submission{}
	sub.Normalize()
	errs := sub.Validate()

	for _, field := range []string{"name", "email", "marketing_consent"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected field error for %s", field)
		}
	}
	if len(errs) != 3 {
		t.Errorf("expected exactly 3 field errors, got %v", errs)
	}
}

func TestValidateEmailShape(t *testing.T) {
	valid := []string{"jane@example.com", "a.b@c.de", "x@sub.domain.tld"}
	invalid := []string{"", "plain", "a@b", "with space@x.y", "a@with space.y", "a@@b.c"}

	for _, email := range valid {
		sub := Submission{Name: "Jane", Email: email, MarketingConsent: true}
		sub.Normalize()
		if errs := sub.Validate(); len(errs) != 0 {
			t.Errorf("expected %q to validate, got %v", email, errs)
		}
	}
	for _, email := range invalid {
		sub := Submission{Name: "Jane", Email: email, MarketingConsent: true}
		sub.Normalize()
		if errs := sub.Validate(); errs["email"] == "" {
			t.Errorf("expected %q to fail email validation", email)
		}
	}
}

func TestValidateConsentMustBeTrue(t *testing.T) {
	sub := Submission{Name: "Jane", Email: "jane@example.com", MarketingConsent: false}
	sub.Normalize()
	errs := sub.Validate()
	if errs["marketing_consent"] == "" {
		t.Error("expected marketing_consent field error")
	}
}

func TestValidateClosedSets(t *testing.T) {
	sub := Submission{
		Name:             "Jane",
		Email:            "jane@example.com",
		MarketingConsent: true,
		Segment:          "Konzern",
		RevenueRange:     "9999",
	}
	sub.Normalize()
	errs := sub.Validate()

	if errs["segment"] == "" {
		t.Error("expected segment field error for out-of-set value")
	}
	if errs["revenue_range"] == "" {
		t.Error("expected revenue_range field error for out-of-set value")
	}

	// Empty optional fields are fine.
	sub = Submission{Name: "Jane", Email: "jane@example.com", MarketingConsent: true}
	sub.Normalize()
	if errs := sub.Validate(); len(errs) != 0 {
		t.Errorf("optional fields empty should validate, got %v", errs)
	}
}

func TestNormalizeRevenueRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"< 1.500", "< 1500", true},
		{"1.500 - 5.000", "1500 - 5000", true},
		{"5.000 +", "5000 +", true},
		{"< 1500", "< 1500", true},
		{"1500 - 5000", "1500 - 5000", true},
		{"5000 +", "5000 +", true},
		{"  1500 - 5000  ", "1500 - 5000", true},
		{"", "", true},
		{"9999", "9999", false},
		{"1.5", "1.5", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeRevenueRange(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeRevenueRange(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeLowercasesEmail(t *testing.T) {
	sub := Submission{Name: "  Jane  ", Email: "  JANE@EXAMPLE.com ", MarketingConsent: true}
	sub.Normalize()

	if sub.Name != "Jane" {
		t.Errorf("expected trimmed name, got %q", sub.Name)
	}
	if sub.Email != "jane@example.com" {
		t.Errorf("expected lower-cased email, got %q", sub.Email)
	}
}

func TestToRecord(t *testing.T) {
	sub := Submission{
		Name:             "Jane",
		Email:            "jane@example.com",
		Segment:          "Studio",
		RevenueRange:     "1500 - 5000",
		MarketingConsent: true,
	}
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	rec := sub.ToRecord(at)

	if !rec.MarketingConsent {
		t.Error("record must carry marketing_consent=true")
	}
	if rec.ConsentTimestamp.Location() != time.UTC {
		t.Error("consent timestamp must be UTC")
	}
	if got := rec.ConsentTimestamp.Format(time.RFC3339); got != "2026-03-01T11:30:00Z" {
		t.Errorf("unexpected consent timestamp %s", got)
	}
}
