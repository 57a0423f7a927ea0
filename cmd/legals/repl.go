package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/internal/terminal"
	"github.com/wolfman30/legals-assistant/internal/transcript"
)

const helpText = `Type your legal situation and press Enter. End a line with \ to continue it.
Commands:
  /lang [en|hi]  switch language (toggles without an argument)
  /theme         toggle dark mode
  /sidebar       toggle the sidebar
  /voice         voice input
  /help          show this help
  /quit          exit`

type repl struct {
	mgr      *session.Manager
	in       *bufio.Scanner
	out      io.Writer
	printer  *terminal.Printer
	maxChars int
}

func newREPL(mgr *session.Manager, in io.Reader, out io.Writer, maxChars int) *repl {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &repl{
		mgr:      mgr,
		in:       scanner,
		out:      out,
		printer:  terminal.NewPrinter(out),
		maxChars: maxChars,
	}
}

// Run reads commands and queries until EOF, /quit or ctx is done.
func (r *repl) Run(ctx context.Context) error {
	unsubscribe := r.mgr.Subscribe(func(s session.State) {
		r.printer.PrintNew(transcript.Render(s))
	})
	defer unsubscribe()

	v := transcript.Render(r.mgr.Snapshot())
	r.printer.PrintHeader(v)
	r.printer.PrintNew(v)

	var pending []string
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := r.in.Text()

		if strings.HasSuffix(line, `\`) {
			pending = append(pending, strings.TrimSuffix(line, `\`))
			continue
		}
		if len(pending) > 0 {
			line = strings.Join(append(pending, line), "\n")
			pending = nil
		}

		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			if quit := r.command(strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}

		if r.maxChars > 0 && utf8.RuneCountInString(line) > r.maxChars {
			r.printer.Notice(fmt.Sprintf("Message too long (%d characters max).", r.maxChars))
			continue
		}
		r.mgr.SetDraft(line)
		r.mgr.SubmitDraft(ctx)
	}
}

func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	lang := r.mgr.Snapshot().Language
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/lang":
		if len(fields) > 1 {
			l, err := i18n.ParseLanguage(fields[1])
			if err != nil {
				r.printer.Notice(err.Error())
				return false
			}
			r.mgr.SetLanguage(l)
		} else {
			r.mgr.ToggleLanguage()
		}
		r.printer.PrintHeader(transcript.Render(r.mgr.Snapshot()))
	case "/theme":
		r.printer.Notice(fmt.Sprintf("dark mode: %s", onOff(r.mgr.ToggleTheme())))
	case "/sidebar":
		r.printer.Notice(fmt.Sprintf("sidebar: %s", onOff(r.mgr.ToggleSidebar())))
	case "/voice":
		r.printer.Notice(i18n.VoiceNotice.In(lang))
	default:
		r.printer.Notice(fmt.Sprintf("unknown command %s, try /help", fields[0]))
	}
	return false
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
