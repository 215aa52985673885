package decoder

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/swaggest/fbind/resolver"
)

const (
	tagParam    = "param"
	tagDefault  = "default"
	tagRequired = "required"
)

// otherTags mark fields bound by other decoders.
var otherTags = []string{"json", "header", "cookie", "formData", "file"}

// hasFieldTags checks if the structure has fields with tag name.
func hasFieldTags(t reflect.Type, tagname string) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if tag := field.Tag.Get(tagname); tag != "" && tag != "-" {
			return true
		}

		if field.Anonymous {
			if hasFieldTags(field.Type, tagname) {
				return true
			}
		}
	}

	return false
}

type paramField struct {
	index []int
	param resolver.Param
}

// paramFields collects parameter descriptors of structure fields.
func paramFields(t reflect.Type, index []int) []paramField {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []paramField

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		idx := append(append([]int(nil), index...), i)

		_, hasParam := field.Tag.Lookup(tagParam)

		if field.Anonymous && !hasParam && field.Type.Kind() == reflect.Struct {
			fields = append(fields, paramFields(field.Type, idx)...)

			continue
		}

		if field.PkgPath != "" {
			continue
		}

		if p, ok := fieldParam(field); ok {
			fields = append(fields, paramField{index: idx, param: p})
		}
	}

	return fields
}

func fieldParam(field reflect.StructField) (resolver.Param, bool) {
	name, hasParam := field.Tag.Lookup(tagParam)
	if name == "-" {
		return resolver.Param{}, false
	}

	var options []func(p *resolver.Param)

	switch {
	case hasParam:
	case boundElsewhere(field):
		options = append(options, resolver.BoundElsewhere)
	default:
		options = append(options, resolver.Unannotated)
	}

	if def, ok := field.Tag.Lookup(tagDefault); ok {
		options = append(options, resolver.WithDefault(def))
	}

	if field.Tag.Get(tagRequired) == "false" {
		options = append(options, resolver.Optional)
	}

	p := resolver.NewParam(name, field.Type, options...)
	if p.Name == "" {
		p.Name = lowerFirst(field.Name)
	}

	return p, true
}

func boundElsewhere(field reflect.StructField) bool {
	for _, tagname := range otherTags {
		if tag := field.Tag.Get(tagname); tag != "" && tag != "-" {
			return true
		}
	}

	return false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(r)) + s[size:]
}
