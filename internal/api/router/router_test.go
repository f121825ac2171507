package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lhweb/site-backend/internal/leads"
	"github.com/lhweb/site-backend/internal/ratelimit"
	"github.com/lhweb/site-backend/pkg/logging"
)

const testSecret = "router-test-secret"

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := leads.NewInMemoryRepository()
	limiter := ratelimit.NewFixedWindow(time.Hour, 100)
	handler := leads.NewHandler(repo, limiter, nil, nil, logging.Default())
	reg := prometheus.NewRegistry()

	return New(&Config{
		Logger:         logging.Default(),
		LeadsHandler:   handler,
		AdminJWTSecret: testSecret,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "lhweb-admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestSubmitLeadIsPublic(t *testing.T) {
	r := testRouter(t)
	body := strings.NewReader(`{
		"fields": {
			"name": "Jane Doe",
			"email": "jane@example.com",
			"message": "I need a new website for my business, can you help?",
			"consent_to_contact": true
		}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/leads", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestListLeadsRequiresAuth(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestListLeadsWithToken(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestUpdateStatusRequiresAuth(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPatch, "/leads/some-id", strings.NewReader(`{"status":"won"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
