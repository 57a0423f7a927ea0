package webchat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/internal/transcript"
)

// InboundMessage is what a stream client sends.
type InboundMessage struct {
	Type     string `json:"type"` // "message", "draft", "language", "voice", "ping"
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
}

// OutboundMessage is what the stream pushes.
type OutboundMessage struct {
	Type   string                `json:"type"` // "view", "pong", "notice", "error"
	View   *transcript.View      `json:"view,omitempty"`
	Text   string                `json:"text,omitempty"`
	Result *session.SubmitResult `json:"result,omitempty"`
}

// HandleStream upgrades to a websocket that pushes a fresh view after every
// state change and accepts submissions.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, m)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, m *session.Manager) {
	// Streams outlive the server's request timeouts.
	_ = conn.SetDeadline(time.Time{})

	changed := make(chan struct{}, 1)
	unsubscribe := m.Subscribe(func(session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	out := make(chan OutboundMessage, 8)
	done := make(chan struct{})
	defer close(done)

	var keepAlive <-chan time.Time
	if d := h.registry.keepAliveInterval(); d > 0 {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	// Single writer; the websocket is not safe for concurrent sends.
	go func() {
		sendView := func() bool {
			v := transcript.Render(m.Snapshot())
			return websocket.JSON.Send(conn, OutboundMessage{Type: "view", View: &v}) == nil
		}
		if !sendView() {
			return
		}
		for {
			select {
			case <-done:
				return
			case <-changed:
				if !sendView() {
					return
				}
			case msg := <-out:
				if websocket.JSON.Send(conn, msg) != nil {
					return
				}
			case <-keepAlive:
				// An open stream keeps its session alive.
				if !h.registry.Touch(m.ID()) {
					conn.Close()
					return
				}
			}
		}
	}()

	push := func(msg OutboundMessage) {
		select {
		case out <- msg:
		case <-done:
		}
	}

	h.logger.Info("webchat: stream opened", "session_id", m.ID())
	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: stream closed", "session_id", m.ID(), "error", err)
			return
		}
		if !h.registry.Touch(m.ID()) {
			h.logger.Info("webchat: stream session ended", "session_id", m.ID())
			return
		}

		switch msg.Type {
		case "ping":
			push(OutboundMessage{Type: "pong"})
		case "draft":
			if h.validate.Var(msg.Text, h.lengthTag()) != nil {
				push(OutboundMessage{Type: "error", Text: "text too long"})
				continue
			}
			m.SetDraft(msg.Text)
		case "language":
			// Same rule as LanguageRequest.
			if h.validate.Var(msg.Language, "required,oneof=en hi") != nil {
				push(OutboundMessage{Type: "error", Text: fmt.Sprintf("unsupported language %q", msg.Language)})
				continue
			}
			lang, err := i18n.ParseLanguage(msg.Language)
			if err != nil {
				push(OutboundMessage{Type: "error", Text: err.Error()})
				continue
			}
			m.SetLanguage(lang)
		case "voice":
			push(OutboundMessage{Type: "notice", Text: i18n.VoiceNotice.In(m.Snapshot().Language)})
		case "message":
			if h.validate.Var(msg.Text, h.lengthTag()) != nil {
				push(OutboundMessage{Type: "error", Text: "text too long"})
				continue
			}
			// Views for the pending and settled states arrive through the
			// subscription; the result tells the client how it ended.
			go func(text string) {
				defer func() {
					// The transcript has already settled as a service error.
					if rec := recover(); rec != nil {
						h.logger.Error("webchat: analyzer panicked", "session_id", m.ID(), "panic", rec)
					}
				}()
				res := m.Submit(context.Background(), text)
				if !res.Accepted {
					push(OutboundMessage{Type: "notice", Result: &res})
				}
			}(msg.Text)
		}
	}
}
