package webchat

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/observability/metrics"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// IdleTTL discards sessions not touched for this long. Zero keeps them
	// until deleted.
	IdleTTL         time.Duration
	DefaultLanguage i18n.Language
	Logger          *logging.Logger
	Metrics         *metrics.SessionMetrics
}

// Registry holds live conversations keyed by session ID.
type Registry struct {
	analyzer    analysis.Analyzer
	logger      *logging.Logger
	metrics     *metrics.SessionMetrics
	defaultLang i18n.Language
	idleTTL     time.Duration

	mu    sync.Mutex
	cache *cache.Cache
}

// NewRegistry creates an in-memory registry. Expired sessions are purged in
// the background.
func NewRegistry(analyzer analysis.Analyzer, opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	lang := opts.DefaultLanguage
	if lang != i18n.HI {
		lang = i18n.EN
	}

	ttl := cache.NoExpiration
	var cleanup time.Duration
	if opts.IdleTTL > 0 {
		ttl = opts.IdleTTL
		cleanup = opts.IdleTTL / 2
		if cleanup < time.Minute {
			cleanup = time.Minute
		}
	}

	r := &Registry{
		analyzer:    analyzer,
		logger:      logger,
		metrics:     opts.Metrics,
		defaultLang: lang,
		idleTTL:     opts.IdleTTL,
		cache:       cache.New(ttl, cleanup),
	}
	r.cache.OnEvicted(func(id string, _ interface{}) {
		r.metrics.SessionClosed()
		r.logger.Info("webchat: session closed", "session_id", id)
	})
	return r
}

// Create starts a new conversation. A nil language uses the registry default.
func (r *Registry) Create(lang *i18n.Language) *session.Manager {
	l := r.defaultLang
	if lang != nil {
		l = *lang
	}
	opts := session.Options{Language: l, SidebarOpen: true, Logger: r.logger}
	if r.metrics != nil {
		opts.Metrics = r.metrics
	}
	m := session.NewManager(r.analyzer, opts)

	r.mu.Lock()
	r.cache.Set(m.ID(), m, cache.DefaultExpiration)
	r.mu.Unlock()

	r.metrics.SessionOpened()
	r.logger.Info("webchat: session opened", "session_id", m.ID(), "language", l.Code())
	return m
}

// Get returns the session and resets its idle timer.
func (r *Registry) Get(id string) (*session.Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touchLocked(id)
}

// Touch resets the idle timer of a live session. It reports false once the
// session has expired or been deleted.
func (r *Registry) Touch(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.touchLocked(id)
	return ok
}

func (r *Registry) touchLocked(id string) (*session.Manager, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	m := x.(*session.Manager)
	// Set on an existing key does not fire OnEvicted.
	r.cache.Set(id, m, cache.DefaultExpiration)
	return m, true
}

// keepAliveInterval is how often an open stream refreshes its session, or
// zero when sessions never idle out.
func (r *Registry) keepAliveInterval() time.Duration {
	if r.idleTTL <= 0 {
		return 0
	}
	return r.idleTTL / 3
}

// Delete ends a conversation. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.cache.Get(id); !found {
		return false
	}
	r.cache.Delete(id)
	return true
}

// Len returns the number of live sessions, including expired ones not yet purged.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
