// Package binder converts raw request values into typed Go values.
package binder

import (
	"fmt"
	"net/url"
	"reflect"
	"sync"

	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/form/v5"
)

const valueTag = "bind"

var _ resolver.BinderFactory = &Factory{}

// Factory creates value binders.
//
// Please use NewFactory to create instance.
type Factory struct {
	formDecoder *form.Decoder

	mu      sync.RWMutex
	rules   []Rule
	byName  map[string][]Rule
	holders sync.Map // map[reflect.Type]reflect.Type
}

// NewFactory creates binder factory.
func NewFactory(options ...func(f *Factory)) *Factory {
	f := &Factory{
		byName: make(map[string][]Rule),
	}

	dec := form.NewDecoder()
	dec.SetTagName(valueTag)
	dec.SetMode(form.ModeExplicit)
	f.formDecoder = dec

	for _, option := range options {
		option(f)
	}

	return f
}

// WithRule adds preprocessing rule for all parameters.
func WithRule(rule Rule) func(f *Factory) {
	return func(f *Factory) {
		f.AddRule("", rule)
	}
}

// AddRule adds preprocessing rule for parameters with name, empty name applies to all parameters.
func (f *Factory) AddRule(name string, rule Rule) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if name == "" {
		f.rules = append(f.rules, rule)

		return
	}

	f.byName[name] = append(f.byName[name], rule)
}

// RegisterFunc adds custom type handling.
func (f *Factory) RegisterFunc(fn form.DecodeFunc, types ...interface{}) {
	f.formDecoder.RegisterFunc(fn, types...)
}

// MakeBinder creates binder for named parameter.
func (f *Factory) MakeBinder(_ resolver.Request, name string) resolver.Binder {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b := binder{
		name:    name,
		factory: f,
	}

	if named := f.byName[name]; len(named) > 0 {
		b.rules = make([]Rule, 0, len(named)+len(f.rules))
		b.rules = append(b.rules, named...)
		b.rules = append(b.rules, f.rules...)
	} else {
		b.rules = f.rules
	}

	return b
}

// holderType returns a struct type with single field V of type t.
func (f *Factory) holderType(t reflect.Type) reflect.Type {
	if ht, ok := f.holders.Load(t); ok {
		return ht.(reflect.Type)
	}

	ht := reflect.StructOf([]reflect.StructField{{
		Name: "V",
		Type: t,
		Tag:  reflect.StructTag(valueTag + `:"v"`),
	}})

	f.holders.Store(t, ht)

	return ht
}

type binder struct {
	name    string
	factory *Factory
	rules   []Rule
}

// Bind converts raw value to type t.
func (b binder) Bind(raw string, t reflect.Type) (interface{}, error) {
	for _, rule := range b.rules {
		var ok bool

		raw, ok = rule.Apply(t, raw)
		if !ok {
			return nil, nil
		}
	}

	if t.Kind() == reflect.String {
		return reflect.ValueOf(raw).Convert(t).Interface(), nil
	}

	// Empty value of non-string type is null.
	if raw == "" {
		return nil, nil
	}

	holder := reflect.New(b.factory.holderType(t))

	if err := b.factory.formDecoder.Decode(holder.Interface(), url.Values{"v": {raw}}); err != nil {
		if de, ok := err.(form.DecodeErrors); ok {
			if cause, ok := de["v"]; ok {
				err = cause
			}
		}

		return nil, &ConversionError{Name: b.name, Value: raw, Type: t, Err: err}
	}

	return holder.Elem().Field(0).Interface(), nil
}

// ConversionError describes a value that could not be converted to parameter type.
type ConversionError struct {
	Name  string
	Value string
	Type  reflect.Type
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert value %q of parameter %q to %s: %v", e.Value, e.Name, e.Type, e.Err)
}

// Unwrap returns conversion cause.
func (e *ConversionError) Unwrap() error {
	return e.Err
}
