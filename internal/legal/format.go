package legal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wolfman30/legals-assistant/internal/i18n"
)

// CategoryLabel is the display label for an entity category. Known categories
// have Hindi labels; anything else is title-cased ("locations" -> "Locations").
func CategoryLabel(category string, lang i18n.Language) string {
	if lang == i18n.HI {
		if label, ok := i18n.CategoryLabelHI(category); ok {
			return label
		}
	}
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(category, "_", " "))
}

// JoinItems renders an entity group's items on one line.
func JoinItems(items []string) string {
	return strings.Join(items, ", ")
}
