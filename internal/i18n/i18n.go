// Package i18n resolves bilingual (English/Hindi) strings for the assistant.
package i18n

import (
	"fmt"
	"strings"
)

// Language is the active display language.
type Language string

const (
	EN Language = "en"
	HI Language = "hi"
)

// ParseLanguage accepts "en" or "hi" in any case.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, nil
	case HI:
		return HI, nil
	default:
		return "", fmt.Errorf("i18n: unsupported language %q", s)
	}
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == HI {
		return EN
	}
	return HI
}

// Code is the wire code sent to the analysis service.
func (l Language) Code() string {
	if l == HI {
		return string(HI)
	}
	return string(EN)
}

// Resolve returns hi when lang is HI and en otherwise. Any value other than
// HI, including the zero value, resolves to English.
func Resolve(en, hi string, lang Language) string {
	if lang == HI {
		return hi
	}
	return en
}

// Text is a translation pair.
type Text struct {
	EN string `json:"en"`
	HI string `json:"hi"`
}

// In resolves the pair for lang.
func (t Text) In(lang Language) string {
	return Resolve(t.EN, t.HI, lang)
}

// Same builds a pair whose two sides are identical, for service-provided text
// that carries no translation.
func Same(s string) Text {
	return Text{EN: s, HI: s}
}
