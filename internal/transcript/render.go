// Package transcript projects session state into a display structure. Every
// user-facing label is resolved here, at render time, in the session's current
// language.
package transcript

import (
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/internal/session"
)

// TimeLayout is the clock format shown next to each message.
const TimeLayout = "15:04"

// View is a rendered session.
type View struct {
	SessionID   string           `json:"session_id"`
	Version     uint64           `json:"version"`
	Language    i18n.Language    `json:"language"`
	Title       string           `json:"title"`
	Status      string           `json:"status"`
	Busy        bool             `json:"busy"`
	Pending     *PendingView     `json:"pending,omitempty"`
	Messages    []DisplayMessage `json:"messages"`
	Draft       string           `json:"draft"`
	InputHint   string           `json:"input_hint"`
	InputFooter string           `json:"input_footer"`
	DarkMode    bool             `json:"dark_mode"`
	SidebarOpen bool             `json:"sidebar_open"`
}

// PendingView is the typing indicator shown while a submission is in flight.
type PendingView struct {
	Notice string `json:"notice"`
	Hint   string `json:"hint"`
}

// DisplayMessage is one rendered transcript entry.
type DisplayMessage struct {
	ID        string        `json:"id"`
	Sender    string        `json:"sender"`
	FromUser  bool          `json:"from_user"`
	Kind      session.Kind  `json:"kind"`
	Label     string        `json:"label,omitempty"`
	Lines     []string      `json:"lines,omitempty"`
	Analysis  *AnalysisView `json:"analysis,omitempty"`
	Time      string        `json:"time"`
	CreatedAt time.Time     `json:"created_at"`
}

// AnalysisView is a rendered legal analysis. Sections with no content are nil
// and must not be shown.
type AnalysisView struct {
	ConfidenceLabel string           `json:"confidence_label"`
	Confidence      legal.Confidence `json:"confidence"`
	ConfidenceText  string           `json:"confidence_text"`
	ProcessingLabel string           `json:"processing_label"`
	ProcessingTime  string           `json:"processing_time"`
	Entities        *EntitiesSection `json:"entities,omitempty"`
	Laws            *LawsSection     `json:"laws,omitempty"`
	Guidance        *TextSection     `json:"guidance,omitempty"`
	Disclaimers     *TextSection     `json:"disclaimers,omitempty"`
	QuickActions    []string         `json:"quick_actions"`
}

type EntitiesSection struct {
	Heading string       `json:"heading"`
	Groups  []EntityLine `json:"groups"`
}

type EntityLine struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Items    string `json:"items"`
}

type LawsSection struct {
	Heading string     `json:"heading"`
	Laws    []LawEntry `json:"laws"`
}

type LawEntry struct {
	Section        string            `json:"section"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Confidence     *legal.Confidence `json:"confidence,omitempty"`
	ConfidenceText string            `json:"confidence_text,omitempty"`
}

type TextSection struct {
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
}

// Render projects state into a View. It has no side effects and reads nothing
// but its argument.
func Render(state session.State) View {
	lang := state.Language
	v := View{
		SessionID:   state.ID,
		Version:     state.Version,
		Language:    lang,
		Title:       i18n.AppTitle.In(lang),
		Status:      i18n.StatusReady.In(lang),
		Busy:        state.InFlight,
		Messages:    make([]DisplayMessage, 0, len(state.Transcript)),
		Draft:       state.Draft,
		InputHint:   i18n.InputHint.In(lang),
		InputFooter: i18n.InputFooter.In(lang),
		DarkMode:    state.DarkMode,
		SidebarOpen: state.SidebarOpen,
	}
	if state.InFlight {
		v.Status = i18n.StatusBusy.In(lang)
		v.Pending = &PendingView{
			Notice: i18n.PendingNotice.In(lang),
			Hint:   i18n.PendingHint.In(lang),
		}
	}
	for _, msg := range state.Transcript {
		v.Messages = append(v.Messages, RenderMessage(msg, lang))
	}
	return v
}

// RenderMessage renders a single transcript entry in lang.
func RenderMessage(msg session.Message, lang i18n.Language) DisplayMessage {
	dm := DisplayMessage{
		ID:        msg.ID,
		FromUser:  msg.Sender == session.SenderUser,
		Kind:      msg.Kind,
		Time:      msg.CreatedAt.Format(TimeLayout),
		CreatedAt: msg.CreatedAt,
	}
	if dm.FromUser {
		dm.Sender = i18n.SenderUser.In(lang)
	} else {
		dm.Sender = i18n.SenderBot.In(lang)
	}

	switch msg.Kind {
	case session.KindLegalAnalysis:
		if msg.Analysis != nil {
			dm.Analysis = RenderAnalysis(*msg.Analysis, lang)
		}
	case session.KindError:
		dm.Label = i18n.ErrorLabel.In(lang)
		dm.Lines = splitLines(msg.Text)
	default:
		dm.Lines = splitLines(msg.Text)
	}
	return dm
}

// RenderAnalysis renders a normalized analysis.
func RenderAnalysis(a legal.Analysis, lang i18n.Language) *AnalysisView {
	av := &AnalysisView{
		ConfidenceLabel: i18n.ConfidenceText.In(lang),
		Confidence:      a.Confidence,
		ConfidenceText:  percentText(a.Confidence),
		ProcessingLabel: i18n.ProcessingText.In(lang),
		ProcessingTime:  a.ProcessingTime,
		QuickActions:    make([]string, 0, len(i18n.QuickActions)),
	}

	if len(a.Entities) > 0 {
		sec := &EntitiesSection{Heading: i18n.SectionEntities.In(lang)}
		for _, g := range a.Entities {
			sec.Groups = append(sec.Groups, EntityLine{
				Category: g.Category,
				Label:    legal.CategoryLabel(g.Category, lang),
				Items:    legal.JoinItems(g.Items),
			})
		}
		av.Entities = sec
	}

	if len(a.Laws) > 0 {
		sec := &LawsSection{Heading: i18n.SectionLaws.In(lang)}
		for _, law := range a.Laws {
			entry := LawEntry{
				Section:     law.Section,
				Title:       law.Title,
				Description: law.Description,
				Confidence:  law.Confidence,
			}
			if law.Confidence != nil {
				entry.ConfidenceText = percentText(*law.Confidence)
			}
			sec.Laws = append(sec.Laws, entry)
		}
		av.Laws = sec
	}

	if len(a.Guidance) > 0 {
		av.Guidance = &TextSection{
			Heading: i18n.SectionGuidance.In(lang),
			Lines:   append([]string(nil), a.Guidance...),
		}
	}

	if len(a.Disclaimers) > 0 {
		sec := &TextSection{Heading: i18n.SectionDisclaimers.In(lang)}
		for _, d := range a.Disclaimers {
			sec.Lines = append(sec.Lines, d.In(lang))
		}
		av.Disclaimers = sec
	}

	for _, qa := range i18n.QuickActions {
		av.QuickActions = append(av.QuickActions, qa.In(lang))
	}
	return av
}

func percentText(c legal.Confidence) string {
	return strconv.Itoa(c.Percent) + "%"
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
