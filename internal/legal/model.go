// Package legal models the analysis service's legal-analysis payload and
// normalizes it into a fully defaulted, render-ready view model.
package legal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// AnalysisResult is the structured payload returned by the analysis service.
// Every field is optional; an empty object is a valid result.
type AnalysisResult struct {
	Entities        Entities        `json:"entities,omitempty"`
	ApplicableLaws  []ApplicableLaw `json:"applicable_laws,omitempty"`
	LegalAdvice     *string         `json:"legal_advice,omitempty"`
	ConfidenceScore *float64        `json:"confidence_score,omitempty"`
	ProcessingTime  *float64        `json:"processing_time,omitempty"`
	// Disclaimers distinguishes an absent field (nil) from an explicit empty list.
	Disclaimers *[]string `json:"disclaimers,omitempty"`
}

// ApplicableLaw is one statute the service considers relevant.
type ApplicableLaw struct {
	Section     string   `json:"section"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// EntityGroup is one extracted-entity category and its items.
type EntityGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Entities is an entity mapping that keeps the key order of the JSON object
// it was decoded from.
type Entities []EntityGroup

// UnmarshalJSON decodes a JSON object of string lists, preserving key order.
// A repeated key replaces the earlier value in its original position.
func (e *Entities) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("legal: decode entities: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("legal: entities must be a JSON object")
	}

	var groups Entities
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("legal: decode entity category: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("legal: unexpected entity key %v", keyTok)
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("legal: decode entities %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			groups[i].Items = items
			continue
		}
		index[key] = len(groups)
		groups = append(groups, EntityGroup{Category: key, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("legal: decode entities: %w", err)
	}
	*e = groups
	return nil
}

// MarshalJSON encodes the groups back into a JSON object in order.
func (e Entities) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		items := g.Items
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrMalformed is returned by Decode when the body is not a legal-analysis object.
var ErrMalformed = errors.New("legal: malformed analysis payload")

// Decode parses a success body from the analysis service. The body must be a
// JSON object; unknown fields are ignored.
func Decode(data []byte) (*AnalysisResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformed
	}
	var result AnalysisResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &result, nil
}
