package binder

import (
	"reflect"
	"strings"
)

// Rule preprocesses raw value before conversion.
type Rule interface {
	// Apply returns preprocessed value, false result turns value into null.
	Apply(t reflect.Type, raw string) (string, bool)
}

// RuleFunc implements Rule with a function.
type RuleFunc func(t reflect.Type, raw string) (string, bool)

// Apply calls rule function.
func (f RuleFunc) Apply(t reflect.Type, raw string) (string, bool) {
	return f(t, raw)
}

// TrimSpace removes leading and trailing white space of string values.
type TrimSpace struct {
	// EmptyAsNull turns empty value into null.
	EmptyAsNull bool

	// CharsToDelete are removed from value when not empty.
	CharsToDelete string
}

// Apply trims string values, other types are passed as is.
func (ts TrimSpace) Apply(t reflect.Type, raw string) (string, bool) {
	if t.Kind() != reflect.String {
		return raw, true
	}

	if ts.CharsToDelete != "" {
		raw = strings.Map(func(r rune) rune {
			if strings.ContainsRune(ts.CharsToDelete, r) {
				return -1
			}

			return r
		}, raw)
	}

	raw = strings.TrimSpace(raw)

	if ts.EmptyAsNull && raw == "" {
		return "", false
	}

	return raw, true
}
