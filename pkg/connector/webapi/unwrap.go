package webapi

import (
	"bytes"
	"strconv"
	"strings"

	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
)

// Extract returns the records found at root in body. An empty root means the
// top-level value. A missing segment, invalid JSON, null or a scalar yields no
// records; an object yields one record; an array yields its elements.
func Extract(body []byte, root string) []jsonpool.RawMessage {
	raw, ok := Lookup(body, root)
	if !ok {
		return nil
	}
	switch raw[0] {
	case '[':
		var items []jsonpool.RawMessage
		if err := jsonpool.Unmarshal(raw, &items); err != nil {
			return nil
		}
		return items
	case '{':
		return []jsonpool.RawMessage{raw}
	default:
		return nil
	}
}

// Lookup walks a dotted path through nested objects. Keys that themselves
// contain dots (e.g. "@odata.nextLink") are matched before splitting.
func Lookup(body []byte, path string) (jsonpool.RawMessage, bool) {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 {
		return nil, false
	}
	path = strings.Trim(path, ".")
	if path == "" {
		return raw, true
	}
	return lookupSegments(raw, strings.Split(path, "."))
}

func lookupSegments(raw []byte, segs []string) (jsonpool.RawMessage, bool) {
	if len(segs) == 0 {
		raw = bytes.TrimSpace(raw)
		return raw, len(raw) > 0
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]jsonpool.RawMessage
	if err := jsonpool.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	for i := len(segs); i >= 1; i-- {
		if next, ok := obj[strings.Join(segs[:i], ".")]; ok {
			if v, found := lookupSegments(next, segs[i:]); found {
				return v, true
			}
		}
	}
	return nil, false
}

// ScalarAt returns the string form of a string, number or bool at path
func ScalarAt(body []byte, path string) (string, bool) {
	raw, ok := Lookup(body, path)
	if !ok {
		return "", false
	}
	var v interface{}
	if err := jsonpool.UnmarshalUseNumber(raw, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case jsonpool.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// IntAt returns the integer at path. Numeric strings are accepted since some
// vendors (Tableau) quote their counters.
func IntAt(body []byte, path string) (int, bool) {
	s, ok := ScalarAt(body, path)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// Decode converts raw records into typed values. Each element is decoded into
// model() when possible, otherwise into map[string]any; elements that fit
// neither are dropped.
func Decode(elements []jsonpool.RawMessage, model func() any) []any {
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		if bytes.Equal(bytes.TrimSpace(el), []byte("null")) {
			continue
		}
		if model != nil {
			v := model()
			if err := jsonpool.UnmarshalUseNumber(el, v); err == nil {
				out = append(out, v)
				continue
			}
		}
		var m map[string]any
		if err := jsonpool.UnmarshalUseNumber(el, &m); err == nil && m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Unwrap extracts and decodes the records at root in one step
func Unwrap(body []byte, root string, model func() any) []any {
	return Decode(Extract(body, root), model)
}
