package legal

import (
	"fmt"
	"math"
	"strings"

	"github.com/wolfman30/legals-assistant/internal/i18n"
)

const (
	// DefaultConfidenceScore is shown when the service omits confidence_score.
	DefaultConfidenceScore = 0.85
	// DefaultProcessingTime is shown when the service omits processing_time.
	DefaultProcessingTime = "2.3s"

	mediumThreshold = 70.0
	highThreshold   = 85.0
	// tierEpsilon absorbs float error in score*100 (0.7*100 must land in medium).
	tierEpsilon = 1e-9
)

// Tier is the display bucket for a confidence score.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Confidence is a score prepared for display.
type Confidence struct {
	Score   float64 `json:"score"`
	Percent int     `json:"percent"`
	Tier    Tier    `json:"tier"`
}

// Law is an applicable law prepared for display.
type Law struct {
	Section     string      `json:"section"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Confidence  *Confidence `json:"confidence,omitempty"`
}

// Analysis is a normalized analysis result. Every optional field of the raw
// payload has been resolved: an empty slice means the section is not shown.
type Analysis struct {
	Confidence     Confidence    `json:"confidence"`
	ProcessingTime string        `json:"processing_time"`
	Entities       []EntityGroup `json:"entities"`
	Laws           []Law         `json:"laws"`
	Guidance       []string      `json:"guidance"`
	// Disclaimers stay as translation pairs so defaults follow the current language.
	Disclaimers []i18n.Text `json:"disclaimers"`
}

// Normalize applies the display defaults to a raw result. A nil result is
// treated as an empty object.
func Normalize(raw *AnalysisResult) Analysis {
	if raw == nil {
		raw = &AnalysisResult{}
	}

	score := DefaultConfidenceScore
	if raw.ConfidenceScore != nil {
		score = *raw.ConfidenceScore
	}

	out := Analysis{
		Confidence:     NewConfidence(score),
		ProcessingTime: FormatProcessingTime(raw.ProcessingTime),
		Entities:       filterEntities(raw.Entities),
		Laws:           normalizeLaws(raw.ApplicableLaws),
		Guidance:       SplitParagraphs(raw.LegalAdvice),
		Disclaimers:    normalizeDisclaimers(raw.Disclaimers),
	}
	return out
}

// NewConfidence converts a [0,1] score to a rounded percentage and tier. The
// tier is taken from the unrounded percentage so 0.849 stays medium.
func NewConfidence(score float64) Confidence {
	pct := score * 100
	return Confidence{
		Score:   score,
		Percent: int(math.Round(pct)),
		Tier:    TierFor(pct),
	}
}

// TierFor buckets a percentage: below 70 low, 70 up to 85 medium, 85 and above high.
func TierFor(percent float64) Tier {
	switch {
	case percent >= highThreshold-tierEpsilon:
		return TierHigh
	case percent >= mediumThreshold-tierEpsilon:
		return TierMedium
	default:
		return TierLow
	}
}

// FormatProcessingTime renders seconds with one decimal place, or the placeholder.
func FormatProcessingTime(seconds *float64) string {
	if seconds == nil {
		return DefaultProcessingTime
	}
	return fmt.Sprintf("%.1fs", *seconds)
}

// SplitParagraphs splits advice on line breaks and drops blank lines.
func SplitParagraphs(advice *string) []string {
	if advice == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(*advice, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func filterEntities(entities Entities) []EntityGroup {
	var out []EntityGroup
	for _, g := range entities {
		if len(g.Items) == 0 {
			continue
		}
		items := make([]string, len(g.Items))
		copy(items, g.Items)
		out = append(out, EntityGroup{Category: g.Category, Items: items})
	}
	return out
}

func normalizeLaws(laws []ApplicableLaw) []Law {
	if len(laws) == 0 {
		return nil
	}
	out := make([]Law, 0, len(laws))
	for _, l := range laws {
		law := Law{Section: l.Section, Title: l.Title}
		if l.Description != nil {
			law.Description = *l.Description
		}
		if law.Title == "" {
			law.Title = law.Description
		}
		if l.Confidence != nil {
			c := NewConfidence(*l.Confidence)
			law.Confidence = &c
		}
		out = append(out, law)
	}
	return out
}

func normalizeDisclaimers(disclaimers *[]string) []i18n.Text {
	if disclaimers == nil {
		out := make([]i18n.Text, len(i18n.DefaultDisclaimers))
		copy(out, i18n.DefaultDisclaimers)
		return out
	}
	out := make([]i18n.Text, 0, len(*disclaimers))
	for _, d := range *disclaimers {
		out = append(out, i18n.Same(d))
	}
	return out
}
