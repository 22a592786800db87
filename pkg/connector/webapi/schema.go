package webapi

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	numberType = reflect.TypeOf(jsonpool.Number(""))
	rawType    = reflect.TypeOf(jsonpool.RawMessage(nil))
)

// StructureOf describes the json-tagged fields of the value returned by model.
// Untyped entities (nil model) have no fields.
func StructureOf(model func() any) []core.Field {
	if model == nil {
		return []core.Field{}
	}
	t := reflect.TypeOf(model())
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return []core.Field{}
	}
	return structFields(t, 0)
}

func structFields(t reflect.Type, depth int) []core.Field {
	fields := make([]core.Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, omit := jsonName(sf)
		if name == "-" {
			continue
		}
		// embedded structs contribute their fields inline, as encoding/json does
		if sf.Anonymous && name == "" {
			et := sf.Type
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				fields = append(fields, structFields(et, depth)...)
				continue
			}
		}
		if name == "" {
			name = sf.Name
		}

		f := describe(sf.Type, depth)
		f.Name = name
		if omit {
			f.Nullable = true
		}
		f.Primary = strings.EqualFold(name, "id")
		fields = append(fields, f)
	}
	return fields
}

func describe(t reflect.Type, depth int) core.Field {
	var f core.Field
	if t.Kind() == reflect.Ptr {
		f.Nullable = true
		t = t.Elem()
	}

	switch {
	case t == timeType:
		f.Type = core.FieldTypeTimestamp
	case t == numberType:
		f.Type = core.FieldTypeFloat
	case t == rawType:
		f.Type = core.FieldTypeJSON
	default:
		switch t.Kind() {
		case reflect.String:
			f.Type = core.FieldTypeString
		case reflect.Bool:
			f.Type = core.FieldTypeBool
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f.Type = core.FieldTypeInt
		case reflect.Float32, reflect.Float64:
			f.Type = core.FieldTypeFloat
		case reflect.Slice, reflect.Array:
			if t.Elem().Kind() == reflect.Uint8 {
				f.Type = core.FieldTypeBinary
			} else {
				f.Type = core.FieldTypeArray
			}
			f.Nullable = true
		case reflect.Struct:
			f.Type = core.FieldTypeObject
			if depth < 4 {
				f.Fields = structFields(t, depth+1)
			}
		default:
			f.Type = core.FieldTypeJSON
			f.Nullable = true
		}
	}
	return f
}

func jsonName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	parts := strings.Split(tag, ",")
	omit := false
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omit = true
		}
	}
	return parts[0], omit
}

// GetEntityStructure describes an entity from its typed model. Results are
// cached until refresh is requested.
func (s *Source) GetEntityStructure(ctx context.Context, entity string, refresh bool) (*core.EntityStructure, error) {
	e, err := s.opts.Catalog.Lookup(entity)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(e.Name)

	s.structMu.Lock()
	defer s.structMu.Unlock()
	if cached, ok := s.structures[key]; ok && !refresh {
		return cached, nil
	}

	st := &core.EntityStructure{
		Entity:      e.Name,
		Description: e.Description,
		Endpoint:    e.HTTPMethod() + " " + e.Path,
		Required:    append([]string(nil), e.Required...),
		Fields:      StructureOf(e.Model),
		RetrievedAt: time.Now().UTC(),
	}
	s.structures[key] = st
	return st, nil
}
