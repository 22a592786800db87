package webapi

import (
	"strconv"
	"strings"
)

// IntParam returns the integer value of key in p, or def
func IntParam(p *Params, key string, def int) int {
	if s := strings.TrimSpace(p.Value(key)); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// ListParam splits a comma-separated value, dropping blanks
func ListParam(p *Params, key string) []string {
	raw := p.Value(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BodyFields copies every parameter except skip into a JSON object, keyed as
// the caller spelled it. Numeric and boolean strings keep their JSON type.
func BodyFields(p *Params, skip ...string) map[string]any {
	out := make(map[string]any, p.Len())
	for _, name := range p.Names() {
		if containsFold(skip, name) {
			continue
		}
		out[name] = typedValue(p.Value(name))
	}
	return out
}

func typedValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return n
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
