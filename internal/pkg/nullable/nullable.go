// Package nullable provides JSON field types that distinguish an absent key
// from an explicit null.
package nullable

import (
	"encoding/json"
	"strings"
)

// String is a JSON string field with three states: absent, null, and set.
// Set is true whenever the key was present in the decoded document.
type String struct {
	Set   bool
	Value *string
}

// NewString returns a present, non-null String.
func NewString(v string) String {
	return String{Set: true, Value: &v}
}

// Null returns a present String holding null.
func Null() String {
	return String{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (s *String) UnmarshalJSON(data []byte) error {
	s.Set = true
	if string(data) == "null" {
		s.Value = nil
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// MarshalJSON writes the value or null. Absent fields should be tagged omitzero.
func (s String) MarshalJSON() ([]byte, error) {
	if s.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*s.Value)
}

// IsZero reports whether the field was absent.
func (s String) IsZero() bool {
	return !s.Set
}

// Trimmed returns a copy with surrounding whitespace removed.
// A value that is blank after trimming becomes null.
func (s String) Trimmed() String {
	if !s.Set || s.Value == nil {
		return s
	}
	v := strings.TrimSpace(*s.Value)
	if v == "" {
		return Null()
	}
	return NewString(v)
}
