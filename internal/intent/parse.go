package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fleveque/landmark-finder/internal/model"
)

// wireClassification is the exact JSON shape the model is asked to return.
// Pointers distinguish a missing field from an empty one.
type wireClassification struct {
	Strategy    *string `json:"strategy"`
	City        *string `json:"city,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ParseClassification decodes a model reply into a Classification.
// Code fences are stripped first; anything other than the two documented
// shapes is rejected.
func ParseClassification(raw string) (model.Classification, error) {
	text := stripCodeFences(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var w wireClassification
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %s", ErrClassificationFailed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after JSON object", ErrClassificationFailed)
	}

	if w.Strategy == nil {
		return nil, fmt.Errorf("%w: missing strategy", ErrUnknownStrategy)
	}

	switch model.Strategy(*w.Strategy) {
	case model.StrategyCity:
		if w.City == nil || strings.TrimSpace(*w.City) == "" {
			return nil, fmt.Errorf("%w: strategy A without city", ErrUnknownStrategy)
		}
		if w.Description != nil {
			return nil, fmt.Errorf("%w: strategy A with description", ErrUnknownStrategy)
		}
		return model.City{Name: strings.TrimSpace(*w.City)}, nil

	case model.StrategyDescription:
		if w.Description == nil || strings.TrimSpace(*w.Description) == "" {
			return nil, fmt.Errorf("%w: strategy B without description", ErrUnknownStrategy)
		}
		if w.City != nil {
			return nil, fmt.Errorf("%w: strategy B with city", ErrUnknownStrategy)
		}
		return model.Description{Text: strings.TrimSpace(*w.Description)}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, *w.Strategy)
	}
}

// stripCodeFences removes markdown code fences wrapping JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence line.
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		// Remove closing fence.
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
