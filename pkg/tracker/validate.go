package tracker

import (
	"errors"
	"fmt"
	"strings"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

// ErrInvalidFieldValue marks a value whose shape does not match the field's
// declared type. Such updates are skipped, the rest of the batch applies.
var ErrInvalidFieldValue = errors.New("invalid field value")

// coerceValue normalizes a proposed value against the field spec. Extracted
// values arrive as decoded JSON, so generic list shapes are normalized
// first; anything that still does not fit the declared type is rejected.
func coerceValue(spec *schema.FieldSpec, raw any) (any, error) {
	v := docstate.NormalizeValue(raw)

	switch spec.Type {
	case schema.TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects text, got %T", ErrInvalidFieldValue, spec.Path, raw)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("%w: %s got empty text", ErrInvalidFieldValue, spec.Path)
		}
		return s, nil

	case schema.TypeStringList:
		switch t := v.(type) {
		case []string:
			if len(t) == 0 {
				return nil, fmt.Errorf("%w: %s got empty list", ErrInvalidFieldValue, spec.Path)
			}
			return t, nil
		case string:
			// A lone statement still counts as a one-item list.
			if strings.TrimSpace(t) == "" {
				return nil, fmt.Errorf("%w: %s got empty text", ErrInvalidFieldValue, spec.Path)
			}
			return []string{strings.TrimSpace(t)}, nil
		default:
			return nil, fmt.Errorf("%w: %s expects a list of text items, got %T", ErrInvalidFieldValue, spec.Path, raw)
		}

	case schema.TypeTable:
		rows, ok := v.([]map[string]string)
		if !ok || len(rows) == 0 {
			return nil, fmt.Errorf("%w: %s expects table rows, got %T", ErrInvalidFieldValue, spec.Path, raw)
		}
		return rows, nil

	case schema.TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects one of %v, got %T", ErrInvalidFieldValue, spec.Path, spec.Options, raw)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		for _, opt := range spec.Options {
			if s == opt {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s expects one of %v, got %q", ErrInvalidFieldValue, spec.Path, spec.Options, s)

	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %q", ErrInvalidFieldValue, spec.Path, spec.Type)
	}
}
