package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/internal/transcript"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

// DefaultMaxQueryLength matches the character limit of the input box.
const DefaultMaxQueryLength = 1000

const maxBodyBytes = 64 << 10

// Handler serves the conversation HTTP surface.
type Handler struct {
	registry       *Registry
	logger         *logging.Logger
	validate       *validator.Validate
	maxQueryLength int
}

// CreateSessionRequest starts a conversation.
type CreateSessionRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=en hi"`
}

// DraftRequest replaces the unsent input.
type DraftRequest struct {
	Text string `json:"text"`
}

// MessageRequest submits text, or the current draft when Text is omitted.
type MessageRequest struct {
	Text *string `json:"text"`
}

// LanguageRequest changes the display language.
type LanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=en hi"`
}

// SubmitResponse is returned by the messages endpoint.
type SubmitResponse struct {
	Result session.SubmitResult `json:"result"`
	View   transcript.View      `json:"view"`
}

// NoticeResponse carries a localized informational notice.
type NoticeResponse struct {
	Notice string `json:"notice"`
}

// ValidationResponse lists the fields that failed validation.
type ValidationResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

// NewHandler creates the conversation handler. maxQueryLength <= 0 uses
// DefaultMaxQueryLength.
func NewHandler(registry *Registry, maxQueryLength int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxQueryLength <= 0 {
		maxQueryLength = DefaultMaxQueryLength
	}
	return &Handler{
		registry:       registry,
		logger:         logger,
		validate:       validator.New(),
		maxQueryLength: maxQueryLength,
	}
}

// Routes returns the conversation routes, to be mounted at /chat/sessions.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleDelete)
		r.Put("/draft", h.HandleDraft)
		r.Post("/messages", h.HandleMessage)
		r.Put("/language", h.HandleLanguage)
		r.Post("/language/toggle", h.HandleToggleLanguage)
		r.Post("/theme/toggle", h.HandleToggleTheme)
		r.Post("/sidebar/toggle", h.HandleToggleSidebar)
		r.Post("/voice", h.HandleVoice)
		r.Get("/stream", h.HandleStream)
	})
	return r
}

// HandleCreate starts a conversation and returns its first view.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	var lang *i18n.Language
	if req.Language != "" {
		l := i18n.Language(req.Language)
		lang = &l
	}
	m := h.registry.Create(lang)
	w.Header().Set("Location", fmt.Sprintf("/chat/sessions/%s", m.ID()))
	writeJSON(w, http.StatusCreated, transcript.Render(m.Snapshot()))
}

// HandleGet returns the current view.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, transcript.Render(m.Snapshot()))
}

// HandleDelete ends a conversation.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Delete(chi.URLParam(r, "sessionID")) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDraft replaces the draft. Drafts cannot change while a submission is
// in flight; the returned view shows the draft that is actually held.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if !h.decode(w, r, &req) || !h.checkLength(w, req.Text) {
		return
	}
	m.SetDraft(req.Text)
	writeJSON(w, http.StatusOK, transcript.Render(m.Snapshot()))
}

// HandleMessage submits a query and waits for it to settle. Rejected
// submissions are reported in the result and leave the transcript unchanged.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	var req MessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	// A submission runs to settlement even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	var result session.SubmitResult
	if req.Text == nil {
		result = m.SubmitDraft(ctx)
	} else {
		if !h.checkLength(w, *req.Text) {
			return
		}
		result = m.Submit(ctx, *req.Text)
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Result: result, View: transcript.Render(m.Snapshot())})
}

// HandleLanguage sets the display language.
func (h *Handler) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	var req LanguageRequest
	if !h.decode(w, r, &req) {
		return
	}
	m.SetLanguage(i18n.Language(req.Language))
	writeJSON(w, http.StatusOK, transcript.Render(m.Snapshot()))
}

func (h *Handler) HandleToggleLanguage(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(m *session.Manager) { m.ToggleLanguage() })
}

func (h *Handler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(m *session.Manager) { m.ToggleTheme() })
}

func (h *Handler) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(m *session.Manager) { m.ToggleSidebar() })
}

// HandleVoice answers voice input with the not-yet-available notice.
func (h *Handler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusNotImplemented, NoticeResponse{Notice: i18n.VoiceNotice.In(m.Snapshot().Language)})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, fn func(*session.Manager)) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	fn(m)
	writeJSON(w, http.StatusOK, transcript.Render(m.Snapshot()))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Manager, bool) {
	m, ok := h.registry.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return m, true
}

// decode reads an optional JSON body into dst and validates it. An empty body
// leaves dst at its zero value.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeValidationError(w, err)
		return false
	}
	return true
}

func (h *Handler) checkLength(w http.ResponseWriter, text string) bool {
	if err := h.validate.Var(text, h.lengthTag()); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:  fmt.Sprintf("text exceeds %d characters", h.maxQueryLength),
			Fields: []string{"text"},
		})
		return false
	}
	return true
}

func (h *Handler) lengthTag() string {
	return fmt.Sprintf("max=%d", h.maxQueryLength)
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.logger.Error("webchat: validation failed", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	resp := ValidationResponse{Error: "validation failed"}
	for _, fe := range verrs {
		resp.Fields = append(resp.Fields, fe.Field())
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
