package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one observation: cells keyed by column name, remembering the
// order in which keys were first seen.
type Record struct {
	keys   []string
	values map[string]Cell
}

// NewRecord builds a record from alternating key, value pairs.
// It panics on an odd number of arguments.
func NewRecord(kv ...any) Record {
	if len(kv)%2 != 0 {
		panic("table: NewRecord needs key/value pairs")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("table: record key %v is not a string", kv[i]))
		}
		switch v := kv[i+1].(type) {
		case Cell:
			r.Set(key, v)
		default:
			r.Set(key, CellOf(v))
		}
	}
	return r
}

// Set stores a cell. A repeated key keeps its first position and takes the
// latest value.
func (r *Record) Set(key string, c Cell) {
	if r.values == nil {
		r.values = make(map[string]Cell)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = c
}

// Get returns the cell for key and whether the key is present.
func (r Record) Get(key string) (Cell, bool) {
	c, ok := r.values[key]
	return c, ok
}

// Keys returns the keys in first-seen order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("observation must be a JSON object, got %s", bytes.TrimSpace(data))
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		r.Set(key, CellOf(v))
	}

	_, err = dec.Token()
	return err
}
