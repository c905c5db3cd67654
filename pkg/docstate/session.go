package docstate

import (
	"encoding/json"
	"time"
)

// DocumentValue maps field paths to their current values. A value is one of
// string, []string, or []map[string]string depending on the field type.
// Absent keys mean the field is unset.
type DocumentValue map[string]any

// Session is the unit of conversation state: one per in-progress document.
type Session struct {
	ID           string        `json:"session_id"`
	UserID       string        `json:"user_id,omitempty"`
	DocumentType string        `json:"document_type"`
	Values       DocumentValue `json:"field_values"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"last_updated"`
}

// Clone returns a deep copy of the session. Handed out to callers so the
// stored state only changes through Save.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Values = make(DocumentValue, len(s.Values))
	for k, v := range s.Values {
		cp.Values[k] = cloneValue(v)
	}
	return &cp
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []map[string]string:
		rows := make([]map[string]string, len(t))
		for i, row := range t {
			cp := make(map[string]string, len(row))
			for k, val := range row {
				cp[k] = val
			}
			rows[i] = cp
		}
		return rows
	default:
		return v
	}
}

// Marshal serializes the session record for persistence.
func (s *Session) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal restores a session record produced by Marshal. List and table
// values come back from encoding/json as []any, so they are normalized to
// the concrete shapes the tracker works with.
func Unmarshal(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Values == nil {
		s.Values = make(DocumentValue)
	}
	for path, v := range s.Values {
		s.Values[path] = NormalizeValue(v)
	}
	return &s, nil
}

// NormalizeValue converts generic JSON-decoded list values ([]any) into the
// concrete []string / []map[string]string shapes used throughout the state.
// Scalars pass through untouched.
func NormalizeValue(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	var strs []string
	var rows []map[string]string
	for _, item := range items {
		switch t := item.(type) {
		case string:
			strs = append(strs, t)
		case map[string]any:
			row := make(map[string]string, len(t))
			for k, val := range t {
				if sv, ok := val.(string); ok {
					row[k] = sv
				}
			}
			rows = append(rows, row)
		}
	}
	if len(rows) > 0 {
		return rows
	}
	if strs == nil {
		strs = []string{}
	}
	return strs
}
