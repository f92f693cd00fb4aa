package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultErrorMessage is returned when no extraction rule matches a payload.
const DefaultErrorMessage = "An error occurred"

// Object is a decoded JSON object that remembers its key order, so flattened
// field errors come out in the order the server wrote them.
type Object struct {
	keys []string
	vals map[string]any
}

func newObject() *Object { return &Object{vals: map[string]any{}} }

func (o *Object) set(k string, v any) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.vals[k]
	return v, ok
}

// Keys returns the object keys in document order.
func (o *Object) Keys() []string { return o.keys }

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodePayload turns a response body into the value the extraction rules
// work on: nil for an empty body, the decoded JSON value (objects as *Object,
// numbers as json.Number) for a JSON body, and the trimmed text otherwise.
func DecodePayload(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return string(trimmed)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		// trailing data: not a single JSON document
		return string(trimmed)
	}
	return v
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// ErrorMessages extracts one or more human-readable messages from a payload,
// falling back to DefaultErrorMessage.
func ErrorMessages(data any) []string {
	if msgs, ok := Extract(data); ok {
		return msgs
	}
	return []string{DefaultErrorMessage}
}

// Extract applies the extraction rules in order and reports whether any of them
// matched. Rules:
//  1. a string is returned verbatim;
//  2. a non-empty array yields each item's "description" (objects) or the item
//     itself (strings), when at least one item qualifies;
//  3. an object yields "message", then "error" (string, nested message, or its
//     JSON form), then "errors" flattened and joined with ", ", then "title".
func Extract(data any) ([]string, bool) {
	switch v := data.(type) {
	case string:
		return []string{v}, true
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		var out []string
		for _, item := range v {
			if obj := asObject(item); obj != nil {
				if d, ok := obj.Get("description"); ok {
					out = append(out, stringify(d))
				}
				continue
			}
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out, true
		}
		return nil, false
	}

	obj := asObject(data)
	if obj == nil {
		return nil, false
	}

	if m, ok := obj.Get("message"); ok && truthy(m) {
		return []string{stringify(m)}, true
	}

	if e, ok := obj.Get("error"); ok && truthy(e) {
		if s, ok := e.(string); ok {
			return []string{s}, true
		}
		if nested := asObject(e); nested != nil {
			if m, ok := nested.Get("message"); ok && truthy(m) {
				return []string{stringify(m)}, true
			}
		}
		return []string{stringify(e)}, true
	}

	if errs, ok := obj.Get("errors"); ok && truthy(errs) {
		if flat := flattenErrors(errs); len(flat) > 0 {
			return []string{strings.Join(flat, ", ")}, true
		}
	}

	if t, ok := obj.Get("title"); ok && truthy(t) {
		return []string{stringify(t)}, true
	}

	return nil, false
}

func flattenErrors(v any) []string {
	var out []string
	appendField := func(val any) {
		if list, ok := val.([]any); ok {
			for _, item := range list {
				out = append(out, stringify(item))
			}
			return
		}
		out = append(out, stringify(val))
	}

	if obj := asObject(v); obj != nil {
		for _, k := range obj.Keys() {
			val, _ := obj.Get(k)
			appendField(val)
		}
		return out
	}
	appendField(v)
	return out
}

// asObject accepts both ordered objects from DecodePayload and plain maps built
// by callers. Plain map keys are visited in sorted order.
func asObject(v any) *Object {
	switch o := v.(type) {
	case *Object:
		return o
	case map[string]any:
		obj := newObject()
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.set(k, o[k])
		}
		return obj
	}
	return nil
}

// truthy mirrors the loose presence checks clients apply to error payloads:
// null, "", false and 0 count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
