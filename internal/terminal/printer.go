// Package terminal prints rendered transcripts to a text terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/internal/transcript"
)

// Printer writes views to w. It remembers the last message it printed so a
// live session only prints what is new.
type Printer struct {
	w       io.Writer
	printed map[string]struct{}

	user    *color.Color
	bot     *color.Color
	failure *color.Color
	heading *color.Color
	muted   *color.Color
	tiers   map[legal.Tier]*color.Color
}

// NewPrinter creates a Printer. Colour output follows color.NoColor.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		printed: make(map[string]struct{}),
		user:    color.New(color.FgCyan, color.Bold),
		bot:     color.New(color.FgBlue, color.Bold),
		failure: color.New(color.FgRed),
		heading: color.New(color.Bold, color.Underline),
		muted:   color.New(color.Faint),
		tiers: map[legal.Tier]*color.Color{
			legal.TierLow:    color.New(color.FgRed, color.Bold),
			legal.TierMedium: color.New(color.FgYellow, color.Bold),
			legal.TierHigh:   color.New(color.FgGreen, color.Bold),
		},
	}
}

// PrintNew prints messages of v not printed before, then the pending notice if
// the session is busy.
func (p *Printer) PrintNew(v transcript.View) {
	for _, msg := range v.Messages {
		if _, ok := p.printed[msg.ID]; ok && msg.ID != "" {
			continue
		}
		p.PrintMessage(msg)
		if msg.ID != "" {
			p.printed[msg.ID] = struct{}{}
		}
	}
	if v.Pending != nil {
		p.muted.Fprintf(p.w, "%s %s\n", v.Pending.Notice, v.Pending.Hint)
	}
}

// PrintHeader prints the title line.
func (p *Printer) PrintHeader(v transcript.View) {
	p.heading.Fprintf(p.w, "%s", v.Title)
	p.muted.Fprintf(p.w, "  [%s] %s\n", v.Language.Code(), v.Status)
	p.muted.Fprintf(p.w, "%s\n\n", v.InputFooter)
}

// PrintMessage prints one message.
func (p *Printer) PrintMessage(msg transcript.DisplayMessage) {
	sender := p.bot
	if msg.FromUser {
		sender = p.user
	}
	sender.Fprintf(p.w, "%s", msg.Sender)
	p.muted.Fprintf(p.w, " %s\n", msg.Time)

	if msg.Label != "" {
		p.failure.Fprintf(p.w, "%s: ", msg.Label)
		fmt.Fprintln(p.w, strings.Join(msg.Lines, "\n"))
	} else {
		for _, line := range msg.Lines {
			fmt.Fprintln(p.w, line)
		}
	}
	if msg.Analysis != nil {
		p.printAnalysis(msg.Analysis)
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) printAnalysis(a *transcript.AnalysisView) {
	fmt.Fprintf(p.w, "%s: ", a.ConfidenceLabel)
	p.tierColor(a.Confidence.Tier).Fprintf(p.w, "%s", a.ConfidenceText)
	p.muted.Fprintf(p.w, "  %s: %s\n", a.ProcessingLabel, a.ProcessingTime)

	if a.Entities != nil {
		p.heading.Fprintln(p.w, a.Entities.Heading)
		for _, g := range a.Entities.Groups {
			fmt.Fprintf(p.w, "  %s: %s\n", g.Label, g.Items)
		}
	}
	if a.Laws != nil {
		p.heading.Fprintln(p.w, a.Laws.Heading)
		for _, law := range a.Laws.Laws {
			fmt.Fprintf(p.w, "  %s  %s", law.Section, law.Title)
			if law.Confidence != nil {
				fmt.Fprint(p.w, "  ")
				p.tierColor(law.Confidence.Tier).Fprint(p.w, law.ConfidenceText)
			}
			fmt.Fprintln(p.w)
			if law.Description != "" && law.Description != law.Title {
				p.muted.Fprintf(p.w, "    %s\n", law.Description)
			}
		}
	}
	if a.Guidance != nil {
		p.printSection(a.Guidance)
	}
	if a.Disclaimers != nil {
		p.printSection(a.Disclaimers)
	}
	if len(a.QuickActions) > 0 {
		p.muted.Fprintf(p.w, "[%s]\n", strings.Join(a.QuickActions, "] ["))
	}
}

func (p *Printer) printSection(s *transcript.TextSection) {
	p.heading.Fprintln(p.w, s.Heading)
	for _, line := range s.Lines {
		fmt.Fprintf(p.w, "  %s\n", line)
	}
}

func (p *Printer) tierColor(t legal.Tier) *color.Color {
	if c, ok := p.tiers[t]; ok {
		return c
	}
	return p.muted
}

// Notice prints a one-line informational message.
func (p *Printer) Notice(text string) {
	p.muted.Fprintln(p.w, text)
}
