package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/internal/observability/metrics"
	"github.com/wolfman30/legals-assistant/internal/transcript"
	"github.com/wolfman30/legals-assistant/internal/webchat"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

type staticAnalyzer struct{}

func (staticAnalyzer) Analyze(context.Context, analysis.Query) (*legal.AnalysisResult, error) {
	return &legal.AnalysisResult{}, nil
}

func newTestRouter(t *testing.T, origins ...string) http.Handler {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()
	sm := metrics.NewSessionMetrics(reg)
	registry := webchat.NewRegistry(staticAnalyzer{}, webchat.RegistryOptions{Logger: logger, Metrics: sm})

	return New(&Config{
		Logger:             logger,
		ChatHandler:        webchat.NewHandler(registry, 0, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: origins,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected request id header")
	}
}

func TestRouterChatRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", strings.NewReader(`{"language":"en"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var view transcript.View
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/chat/sessions/"+view.SessionID+"/messages", strings.NewReader(`{"text":"My neighbour damaged my car"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp webchat.SubmitResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode submit response: %v", err)
	}
	if !resp.Result.Accepted || len(resp.View.Messages) != 3 {
		t.Fatalf("expected accepted submission with 3 messages, got %+v", resp.Result)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	create := httptest.NewRequest(http.MethodPost, "/chat/sessions", nil)
	router.ServeHTTP(httptest.NewRecorder(), create)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "legals_session_active 1") {
		t.Fatalf("expected active session gauge in metrics output")
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, "https://legals.example")

	req := httptest.NewRequest(http.MethodOptions, "/chat/sessions", nil)
	req.Header.Set("Origin", "https://legals.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://legals.example" {
		t.Fatalf("expected allow origin header")
	}
}

func TestRouterWithoutChatHandler(t *testing.T) {
	r := New(&Config{})

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound && rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 404/405 without a chat handler, got %d", rr.Code)
	}
}
