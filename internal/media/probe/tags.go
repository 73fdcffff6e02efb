package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is one key/value metadata entry.
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered tag dictionary. Lookups ignore key case and return the
// first matching entry.
type Tags []Tag

// Get returns the value of the first entry whose key matches case-insensitively.
func (t Tags) Get(key string) (string, bool) {
	for _, tag := range t {
		if strings.EqualFold(tag.Key, key) {
			return tag.Value, true
		}
	}
	return "", false
}

// Value returns the matching value or an empty string.
func (t Tags) Value(key string) string {
	v, _ := t.Get(key)
	return v
}

// Set replaces the first entry matching key or appends a new one.
func (t *Tags) Set(key, value string) {
	for i := range *t {
		if strings.EqualFold((*t)[i].Key, key) {
			(*t)[i].Value = value
			return
		}
	}
	*t = append(*t, Tag{Key: key, Value: value})
}

// Add appends an entry unless the key is already present. Earlier entries
// keep priority.
func (t *Tags) Add(key, value string) {
	if _, ok := t.Get(key); ok {
		return
	}
	*t = append(*t, Tag{Key: key, Value: value})
}

// UnmarshalJSON decodes a flat JSON object while keeping key order.
func (t *Tags) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tags: expected object, got %v", tok)
	}
	out := make(Tags, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tags: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			// Some demuxers emit numeric tag values.
			value = strings.TrimSpace(string(raw))
		}
		out = append(out, Tag{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// MarshalJSON encodes the tags as a JSON object in stored order.
func (t Tags) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tag.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(tag.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
