package session

import (
	"time"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/legal"
)

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind identifies the payload of a transcript entry.
type Kind string

const (
	KindPlainText     Kind = "plain_text"
	KindLegalAnalysis Kind = "legal_analysis"
	KindError         Kind = "error"
)

// Message is one transcript entry. It is never modified after it is appended;
// Analysis is shared between snapshots and must be treated as read-only.
type Message struct {
	ID        string          `json:"id"`
	Sender    Sender          `json:"sender"`
	Kind      Kind            `json:"kind"`
	Text      string          `json:"text,omitempty"`
	Analysis  *legal.Analysis `json:"analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// State is a consistent copy of a session taken under its lock.
type State struct {
	ID          string        `json:"id"`
	Version     uint64        `json:"version"`
	Transcript  []Message     `json:"transcript"`
	Draft       string        `json:"draft"`
	Language    i18n.Language `json:"language"`
	InFlight    bool          `json:"in_flight"`
	DarkMode    bool          `json:"dark_mode"`
	SidebarOpen bool          `json:"sidebar_open"`
}

// Outcome is how an accepted submission settled.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeServiceError   Outcome = "service_error"
	OutcomeTransportError Outcome = "transport_error"
)

// Rejection is why a submission was ignored. Rejections leave no transcript entry.
type Rejection string

const (
	RejectNone     Rejection = ""
	RejectInFlight Rejection = "in_flight"
	RejectEmpty    Rejection = "empty"
)

// SubmitResult reports what Submit did.
type SubmitResult struct {
	Accepted  bool      `json:"accepted"`
	Rejection Rejection `json:"rejection,omitempty"`
	Outcome   Outcome   `json:"outcome,omitempty"`
}
