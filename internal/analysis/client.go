// Package analysis calls the remote legal-analysis service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "legals-assistant/0.1"
	queryPath        = "/api/v1/legal/query"
	maxBodyBytes     = 4 << 20
)

// Query is the request sent to the analysis service.
type Query struct {
	Query    string        `json:"query"`
	Language i18n.Language `json:"language"`
}

// Analyzer runs a legal analysis for a query.
type Analyzer interface {
	Analyze(ctx context.Context, q Query) (*legal.AnalysisResult, error)
}

// Config controls how the client behaves.
type Config struct {
	BaseURL string
	// Timeout bounds each call. Zero or negative means no client-side timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
}

// Client posts queries to the analysis service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
	tracer     trace.Tracer
}

// NewClient creates a configured Client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if cfg.Timeout > 0 {
			httpClient.Timeout = cfg.Timeout
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		endpoint:   baseURL + queryPath,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		tracer:     otel.Tracer("legals.internal.analysis"),
	}
}

// Analyze posts the query and decodes the structured result. A non-2xx
// status or an undecodable body yields *ServiceError; a failure to reach the
// service yields *TransportError.
func (c *Client) Analyze(ctx context.Context, q Query) (*legal.AnalysisResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "analysis.query", trace.WithAttributes(
		attribute.String("legal.language", q.Language.Code()),
		attribute.Int("legal.query_length", len(q.Query)),
	))
	defer span.End()

	body, err := json.Marshal(Query{Query: q.Query, Language: i18n.Language(q.Language.Code())})
	if err != nil {
		return nil, fmt.Errorf("analysis: marshal query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("analysis: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Warn("analysis: service unreachable", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &ServiceError{StatusCode: resp.StatusCode, Body: snippet(data)}
		span.SetStatus(codes.Error, "service status")
		c.logger.Warn("analysis: service returned failure",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, serr
	}

	result, err := legal.Decode(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		c.logger.Warn("analysis: malformed success body", "error", err, "status", resp.StatusCode)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: snippet(data), Err: err}
	}

	c.logger.Debug("analysis: query completed",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"laws", len(result.ApplicableLaws),
	)
	return result, nil
}

// ServiceError means the service answered but not with a usable result.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis: service error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("analysis: service error (status %d): %s", e.StatusCode, e.Body)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// TransportError means the service could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Failure classifies an Analyze error for the user-facing message.
type Failure int

const (
	FailureNone Failure = iota
	FailureService
	FailureTransport
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport_error"
	default:
		return "service_error"
	}
}

// Classify maps an error to its failure class. Errors that are neither
// transport errors nor context deadline/cancellation count as service errors.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return FailureTransport
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTransport
	}
	return FailureService
}

func snippet(data []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(data))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
