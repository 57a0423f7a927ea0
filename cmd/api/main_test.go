package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/legals-assistant/internal/config"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

func TestSetupMetricsExposesSessionMetrics(t *testing.T) {
	handler, sm := setupMetrics(true)
	if handler == nil || sm == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	sm.ObserveSubmission("success", 1.5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `legals_session_submissions_total{outcome="success"} 1`) {
		t.Fatalf("expected submissions counter to be exported")
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestSetupMetricsDisabled(t *testing.T) {
	handler, sm := setupMetrics(false)
	if handler != nil || sm != nil {
		t.Fatalf("expected nil handler and metrics when disabled")
	}
}

func TestNewServerServesHealthAndChat(t *testing.T) {
	cfg := &appconfig.Config{
		Port:            "0",
		AnalysisBaseURL: "http://127.0.0.1:1",
		AnalysisTimeout: time.Second,
		DefaultLanguage: "hi",
		MaxQueryLength:  1000,
		MetricsEnabled:  false,
	}
	srv := newServer(cfg, logging.New("error"))

	if srv.WriteTimeout != 16*time.Second {
		t.Fatalf("expected write timeout to cover the analysis timeout, got %s", srv.WriteTimeout)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected session creation 201, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"language":"hi"`) {
		t.Fatalf("expected default language hi, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected /metrics to be absent when disabled, got %d", rr.Code)
	}
}

func TestTimeouts(t *testing.T) {
	disabled := &appconfig.Config{AnalysisTimeout: 0}
	if writeTimeout(disabled) != 0 {
		t.Fatalf("expected no write timeout when analysis timeout is disabled")
	}
	if shutdownTimeout(disabled) != 30*time.Second {
		t.Fatalf("expected default shutdown timeout")
	}
	long := &appconfig.Config{AnalysisTimeout: 2 * time.Minute}
	if shutdownTimeout(long) != 2*time.Minute+5*time.Second {
		t.Fatalf("expected shutdown to wait for the analysis timeout")
	}
}
