package poem

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Well-known field names.
const (
	FieldID       = "id"
	FieldCategory = "category"
	FieldTitle    = "title"
)

// Uncategorized is the display label of the implicit group holding every
// record without a category.
const Uncategorized = "uncategorized"

// Field is one key/value pair of a record payload.
// Value holds the raw JSON bytes exactly as they were read.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Record is a single poem. ID and Category are decoded; everything else
// is carried through untouched.
type Record struct {
	ID       int64
	Category string

	// fields keeps every key in input order, including id and category.
	fields []Field
}

// F builds a Field from any JSON-marshalable value.
// Panics if v cannot be marshaled; intended for literals and tests.
func F(key string, v any) Field {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("poem.F(%q): %v", key, err))
	}
	return Field{Key: key, Value: bytes.TrimSpace(buf.Bytes())}
}

// New creates a record with the given category and payload fields.
// An empty category leaves the record uncategorized and omits the key.
func New(category string, fields ...Field) *Record {
	r := &Record{Category: category}
	if category != "" {
		r.fields = append(r.fields, F(FieldCategory, category))
	}
	for _, f := range fields {
		switch f.Key {
		case FieldID, FieldCategory:
			continue
		}
		r.fields = append(r.fields, f)
	}
	return r
}

// Keys returns the record's keys in their stored order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields)+1)
	hasID := false
	for _, f := range r.fields {
		keys = append(keys, f.Key)
		if f.Key == FieldID {
			hasID = true
		}
	}
	if !hasID {
		keys = append(keys, FieldID)
	}
	return keys
}

// Get returns the raw value stored under key.
// The id is always reported from the ID field.
func (r *Record) Get(key string) (json.RawMessage, bool) {
	if key == FieldID {
		return json.RawMessage(fmt.Sprintf("%d", r.ID)), true
	}
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Title returns the title field when it is a JSON string, or "".
func (r *Record) Title() string {
	raw, ok := r.Get(FieldTitle)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Categorized reports whether the record carries a non-empty category.
func (r *Record) Categorized() bool {
	return r.Category != ""
}

// CategoryKey returns the NFC-normalized category, or "" when the record
// is uncategorized. Two records share a category iff their keys are equal.
func (r *Record) CategoryKey() string {
	if r.Category == "" {
		return ""
	}
	return norm.NFC.String(r.Category)
}

// Label returns the category for display, Uncategorized when empty.
func (r *Record) Label() string {
	if r.Category == "" {
		return Uncategorized
	}
	return r.Category
}

// SameCategory reports whether a and b both carry a non-empty category and
// the categories are equal.
func SameCategory(a, b *Record) bool {
	if !a.Categorized() || !b.Categorized() {
		return false
	}
	return a.CategoryKey() == b.CategoryKey()
}

// UnmarshalJSON decodes a JSON object, preserving key order.
// A non-integer id is tolerated and read as 0 since ids are reassigned.
// A category that is neither a string nor null is rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	*r = Record{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		switch key {
		case FieldID:
			r.ID = decodeID(raw)
		case FieldCategory:
			cat, err := decodeCategory(raw)
			if err != nil {
				return err
			}
			r.Category = cat
		}

		// Duplicate keys: last value wins, first position is kept.
		if i, seen := index[key]; seen {
			r.fields[i].Value = raw
			continue
		}
		index[key] = len(r.fields)
		r.fields = append(r.fields, Field{Key: key, Value: raw})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record with its keys in stored order. The id is
// written from the ID field; a record read without an id gains one at the
// end.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	hasID := false
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.Key); err != nil {
			return nil, err
		}
		if f.Key == FieldID {
			hasID = true
			fmt.Fprintf(&buf, "%d", r.ID)
			continue
		}
		buf.Write(f.Value)
	}

	if !hasID {
		if len(r.fields) > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, FieldID); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%d", r.ID)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	keyBytes, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("marshal key %q: %w", key, err)
	}
	buf.Write(keyBytes)
	buf.WriteByte(':')
	return nil
}

func decodeID(raw json.RawMessage) int64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	id, err := n.Int64()
	if err != nil {
		return 0
	}
	return id
}

func decodeCategory(raw json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("category must be a string, got %s", string(raw))
	}
	return s, nil
}
