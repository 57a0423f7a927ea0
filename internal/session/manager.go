// Package session owns a single conversation: its append-only transcript,
// draft, language and presentation flags, and the single-flight submission
// lifecycle against the analysis service.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

// Recorder receives submission metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveSubmission(outcome string, seconds float64)
	ObserveRejection(reason string)
	IncInFlight()
	DecInFlight()
}

type noopRecorder struct{}

func (noopRecorder) ObserveSubmission(string, float64) {}
func (noopRecorder) ObserveRejection(string)           {}
func (noopRecorder) IncInFlight()                      {}
func (noopRecorder) DecInFlight()                      {}

// Options configures a Manager.
type Options struct {
	ID          string
	Language    i18n.Language
	SidebarOpen bool
	Logger      *logging.Logger
	Metrics     Recorder
	// Now overrides the clock used for CreatedAt.
	Now func() time.Time
}

// Manager is the conversation state machine. All methods are safe for
// concurrent use; the analysis call runs without holding the lock so reads and
// presentation toggles stay available while a submission is in flight.
type Manager struct {
	id       string
	analyzer analysis.Analyzer
	logger   *logging.Logger
	metrics  Recorder
	now      func() time.Time
	tracer   trace.Tracer

	mu          sync.RWMutex
	version     uint64
	transcript  []Message
	draft       string
	language    i18n.Language
	inFlight    bool
	darkMode    bool
	sidebarOpen bool

	subMu       sync.Mutex
	nextSub     int
	subscribers map[int]func(State)
}

// NewManager creates a session whose transcript starts with the greeting.
func NewManager(analyzer analysis.Analyzer, opts Options) *Manager {
	id := strings.TrimSpace(opts.ID)
	if id == "" {
		id = uuid.NewString()
	}
	lang := opts.Language
	if lang != i18n.HI {
		lang = i18n.EN
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var rec Recorder = noopRecorder{}
	if opts.Metrics != nil {
		rec = opts.Metrics
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := &Manager{
		id:          id,
		analyzer:    analyzer,
		logger:      logger,
		metrics:     rec,
		now:         now,
		tracer:      otel.Tracer("legals.internal.session"),
		language:    lang,
		sidebarOpen: opts.SidebarOpen,
		subscribers: make(map[int]func(State)),
	}
	m.appendLocked(Message{Sender: SenderBot, Kind: KindPlainText, Text: i18n.Greeting.In(lang)})
	return m
}

// ID returns the session identifier.
func (m *Manager) ID() string { return m.id }

// Snapshot returns a consistent copy of the session state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Submit validates raw input and, when accepted, runs the analysis to
// settlement before returning. It is a silent no-op while another submission
// is in flight or when the trimmed input is empty.
func (m *Manager) Submit(ctx context.Context, raw string) SubmitResult {
	text := strings.TrimSpace(raw)

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		m.metrics.ObserveRejection(string(RejectInFlight))
		m.logger.Debug("session: submission rejected", "session_id", m.id, "reason", RejectInFlight)
		return SubmitResult{Rejection: RejectInFlight}
	}
	if text == "" {
		m.mu.Unlock()
		m.metrics.ObserveRejection(string(RejectEmpty))
		m.logger.Debug("session: submission rejected", "session_id", m.id, "reason", RejectEmpty)
		return SubmitResult{Rejection: RejectEmpty}
	}
	lang := m.language
	m.appendLocked(Message{Sender: SenderUser, Kind: KindPlainText, Text: text})
	m.inFlight = true
	m.draft = ""
	m.mu.Unlock()

	m.metrics.IncInFlight()
	m.notify()

	outcome := m.run(ctx, text, lang)
	return SubmitResult{Accepted: true, Outcome: outcome}
}

// SubmitDraft submits the current draft.
func (m *Manager) SubmitDraft(ctx context.Context) SubmitResult {
	m.mu.RLock()
	draft := m.draft
	m.mu.RUnlock()
	return m.Submit(ctx, draft)
}

// settlement describes the bot entry that closes a submission.
type settlement struct {
	outcome  Outcome
	analysis *legal.Analysis
}

func (m *Manager) run(ctx context.Context, text string, lang i18n.Language) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := m.tracer.Start(ctx, "session.submit", trace.WithAttributes(
		attribute.String("session.id", m.id),
		attribute.String("legal.language", lang.Code()),
	))
	defer span.End()

	start := time.Now()
	// Preset to a service error so a panicking analyzer still settles.
	s := settlement{outcome: OutcomeServiceError}
	defer func() {
		m.settle(s, time.Since(start))
		span.SetAttributes(attribute.String("session.outcome", string(s.outcome)))
	}()

	result, err := m.analyzer.Analyze(ctx, analysis.Query{Query: text, Language: lang})
	if err != nil {
		span.RecordError(err)
		if analysis.Classify(err) == analysis.FailureTransport {
			s.outcome = OutcomeTransportError
		}
		m.logger.Warn("session: analysis failed",
			"session_id", m.id,
			"outcome", s.outcome,
			"error", err,
		)
		return s.outcome
	}

	normalized := legal.Normalize(result)
	s = settlement{outcome: OutcomeSuccess, analysis: &normalized}
	return s.outcome
}

// settle appends the bot entry and clears the in-flight flag in one step.
func (m *Manager) settle(s settlement, elapsed time.Duration) {
	m.mu.Lock()
	msg := Message{Sender: SenderBot}
	switch s.outcome {
	case OutcomeSuccess:
		msg.Kind = KindLegalAnalysis
		msg.Analysis = s.analysis
	case OutcomeTransportError:
		msg.Kind = KindError
		msg.Text = i18n.NetworkErrorMessage.In(m.language)
	default:
		msg.Kind = KindError
		msg.Text = i18n.ServiceErrorMessage.In(m.language)
	}
	m.appendLocked(msg)
	m.inFlight = false
	m.mu.Unlock()

	m.metrics.DecInFlight()
	m.metrics.ObserveSubmission(string(s.outcome), elapsed.Seconds())
	m.logger.Info("session: submission settled",
		"session_id", m.id,
		"outcome", s.outcome,
		"duration_ms", elapsed.Milliseconds(),
	)
	m.notify()
}

// SetDraft replaces the unsent input. Drafts are frozen while a submission is
// in flight, matching the disabled input box; the return value reports
// whether the draft was updated.
func (m *Manager) SetDraft(text string) bool {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return false
	}
	m.draft = text
	m.version++
	m.mu.Unlock()
	m.notify()
	return true
}

// SetLanguage changes the display language. Existing messages keep the
// language they were created in.
func (m *Manager) SetLanguage(lang i18n.Language) {
	if lang != i18n.HI {
		lang = i18n.EN
	}
	m.mu.Lock()
	m.language = lang
	m.version++
	m.mu.Unlock()
	m.notify()
}

// ToggleLanguage flips between English and Hindi and returns the new language.
func (m *Manager) ToggleLanguage() i18n.Language {
	m.mu.Lock()
	m.language = m.language.Toggle()
	lang := m.language
	m.version++
	m.mu.Unlock()
	m.notify()
	return lang
}

// ToggleTheme flips dark mode and returns the new value.
func (m *Manager) ToggleTheme() bool {
	m.mu.Lock()
	m.darkMode = !m.darkMode
	v := m.darkMode
	m.version++
	m.mu.Unlock()
	m.notify()
	return v
}

// ToggleSidebar flips the sidebar and returns the new value.
func (m *Manager) ToggleSidebar() bool {
	m.mu.Lock()
	m.sidebarOpen = !m.sidebarOpen
	v := m.sidebarOpen
	m.version++
	m.mu.Unlock()
	m.notify()
	return v
}

// Subscribe registers fn to receive a snapshot after every state change. The
// returned function removes the subscription. Callbacks run on the goroutine
// that made the change and must not block.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subscribers, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) notify() {
	m.subMu.Lock()
	if len(m.subscribers) == 0 {
		m.subMu.Unlock()
		return
	}
	fns := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	state := m.Snapshot()
	for _, fn := range fns {
		fn(state)
	}
}

func (m *Manager) appendLocked(msg Message) {
	msg.ID = uuid.NewString()
	msg.CreatedAt = m.now().UTC()
	m.transcript = append(m.transcript, msg)
	m.version++
}

func (m *Manager) snapshotLocked() State {
	transcript := make([]Message, len(m.transcript))
	copy(transcript, m.transcript)
	return State{
		ID:          m.id,
		Version:     m.version,
		Transcript:  transcript,
		Draft:       m.draft,
		Language:    m.language,
		InFlight:    m.inFlight,
		DarkMode:    m.darkMode,
		SidebarOpen: m.sidebarOpen,
	}
}
