package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/pkg/logging"
)

func newTestRouter() http.Handler {
	h := leads.NewHandler(leads.HandlerConfig{
		Store:  leads.NewInMemoryStore(),
		Logger: logging.New("error"),
	})
	return New(&Config{
		Logger:             logging.New("error"),
		LeadsHandler:       h,
		CORSAllowedOrigins: []string{"*"},
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

func TestLeadRoutePost(t *testing.T) {
	r := newTestRouter()

	body := `{"name":"Jane","email":"jane@example.com","marketing_consent":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLeadRouteWrongMethod(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/lead", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// The handler's own method gate answers, with the JSON envelope.
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":false`) {
		t.Errorf("expected envelope body, got %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
