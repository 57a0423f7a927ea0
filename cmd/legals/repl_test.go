package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/legal"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

func init() {
	color.NoColor = true
}

type recordingAnalyzer struct {
	queries []analysis.Query
	err     error
}

func (a *recordingAnalyzer) Analyze(_ context.Context, q analysis.Query) (*legal.AnalysisResult, error) {
	a.queries = append(a.queries, q)
	if a.err != nil {
		return nil, a.err
	}
	score := 0.74
	return &legal.AnalysisResult{ConfidenceScore: &score}, nil
}

func runREPL(t *testing.T, a analysis.Analyzer, input string) (string, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(a, session.Options{Logger: logging.Discard()})
	var out bytes.Buffer
	r := newREPL(mgr, strings.NewReader(input), &out, 20)
	require.NoError(t, r.Run(context.Background()))
	return out.String(), mgr
}

func TestREPLSubmitsQueries(t *testing.T) {
	a := &recordingAnalyzer{}
	out, mgr := runREPL(t, a, "my bike was stolen\n\n   \n")

	require.Len(t, a.queries, 1)
	assert.Equal(t, "my bike was stolen", a.queries[0].Query)
	assert.Contains(t, out, "Welcome to LEGALS")
	assert.Contains(t, out, "Analyzing legal situation...")
	assert.Contains(t, out, "Confidence: 74%")
	assert.Len(t, mgr.Snapshot().Transcript, 3)
}

func TestREPLJoinsContinuationLines(t *testing.T) {
	a := &recordingAnalyzer{}
	runREPL(t, a, "first line\\\nsecond line\n")

	require.Len(t, a.queries, 1)
	assert.Equal(t, "first line\nsecond line", a.queries[0].Query)
}

func TestREPLCommands(t *testing.T) {
	a := &recordingAnalyzer{}
	out, mgr := runREPL(t, a, "/lang hi\n/theme\n/sidebar\n/voice\n/lang xx\n/nope\n/help\n/quit\nnot sent\n")

	state := mgr.Snapshot()
	assert.Equal(t, i18n.HI, state.Language)
	assert.True(t, state.DarkMode)
	assert.Contains(t, out, "dark mode: on")
	assert.Contains(t, out, "sidebar: on")
	assert.Contains(t, out, i18n.VoiceNotice.HI)
	assert.Contains(t, out, `unsupported language "xx"`)
	assert.Contains(t, out, "unknown command /nope")
	assert.Contains(t, out, "/lang [en|hi]")
	assert.Empty(t, a.queries)
}

func TestREPLRejectsLongInput(t *testing.T) {
	a := &recordingAnalyzer{}
	out, _ := runREPL(t, a, strings.Repeat("x", 21)+"\n")
	assert.Contains(t, out, "Message too long (20 characters max).")
	assert.Empty(t, a.queries)
}

func TestREPLShowsNetworkError(t *testing.T) {
	a := &recordingAnalyzer{err: &analysis.TransportError{Err: assert.AnError}}
	out, _ := runREPL(t, a, "/lang\nक्या यह अपराध है\n")
	assert.Contains(t, out, i18n.NetworkErrorMessage.HI)
}
