package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrNotObject = errors.New("record must be a JSON object")

// Record is a JSON object that remembers the order its keys arrived in.
// Values are kept as raw JSON so unknown fields round-trip untouched.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// New returns an empty record.
func New() *Record {
	return &Record{values: make(map[string]json.RawMessage)}
}

// FromStrings builds a record from alternating key/value pairs.
func FromStrings(pairs ...string) *Record {
	r := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Parse decodes a JSON object keeping key order.
func Parse(data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return fromResult(gjson.ParseBytes(data))
}

// FromResult converts an already parsed gjson object.
func FromResult(res gjson.Result) (*Record, error) {
	return fromResult(res)
}

func fromResult(res gjson.Result) (*Record, error) {
	if !res.IsObject() {
		return nil, ErrNotObject
	}
	r := New()
	res.ForEach(func(key, value gjson.Result) bool {
		r.setRaw(key.String(), json.RawMessage(value.Raw))
		return true
	})
	return r, nil
}

// Keys returns keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Raw returns the stored JSON for key.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Text coerces the value under key to text: strings as-is, null as empty,
// anything else as its compact JSON form. Missing keys yield "".
func (r *Record) Text(key string) string {
	raw, ok := r.values[key]
	if !ok {
		return ""
	}
	res := gjson.ParseBytes(raw)
	switch res.Type {
	case gjson.String:
		return res.Str
	case gjson.Null:
		return ""
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}
}

// Set stores a string value. Existing keys keep their position.
func (r *Record) Set(key, value string) {
	raw, _ := json.Marshal(value)
	r.setRaw(key, raw)
}

func (r *Record) setRaw(key string, raw json.RawMessage) {
	if r.values == nil {
		r.values = make(map[string]json.RawMessage)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = raw
}

// Delete removes key if present.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(r.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}
