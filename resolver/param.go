package resolver

import (
	"mime/multipart"
	"net/url"
	"reflect"
	"time"
)

// Binding tells how a parameter was declared to be bound.
type Binding int

// Binding kinds.
const (
	// BindingNone is a parameter without binding declaration.
	BindingNone Binding = iota

	// BindingParam is a parameter explicitly bound to a request parameter.
	BindingParam

	// BindingOther is a parameter bound by another mechanism, e.g. request body.
	BindingOther
)

// Kind is a resolution strategy derived from parameter type.
type Kind int

// Type kinds.
const (
	KindUnsupported Kind = iota
	KindScalar
	KindScalarList
	KindMap
	KindFile
	KindFileList
	KindPart
	KindPartList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindScalarList:
		return "scalar list"
	case KindMap:
		return "map"
	case KindFile:
		return "file"
	case KindFileList:
		return "file list"
	case KindPart:
		return "part"
	case KindPartList:
		return "part list"
	default:
		return "unsupported"
	}
}

var (
	fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))
	partType       = reflect.TypeOf((*Part)(nil))
	timeType       = reflect.TypeOf(time.Time{})
	urlValuesType  = reflect.TypeOf(url.Values{})
)

// Param describes a handler parameter.
//
// Param is created once when handler input is registered and is not changed afterwards.
type Param struct {
	// Name is a source name of request parameter, file or part.
	Name string

	// Named is true when Name was declared explicitly.
	Named bool

	// Type is a declared Go type of parameter.
	Type reflect.Type

	Binding Binding

	// Required fails resolution of absent parameter without default.
	Required bool

	// Default is used for absent or empty value when HasDefault is true.
	Default    string
	HasDefault bool

	kind Kind
}

// NewParam creates parameter descriptor bound to a named request parameter.
//
// Parameter is required, use options to alter that.
func NewParam(name string, t reflect.Type, options ...func(p *Param)) Param {
	p := Param{
		Name:     name,
		Named:    name != "",
		Type:     t,
		Binding:  BindingParam,
		Required: true,
	}

	for _, option := range options {
		option(&p)
	}

	p.kind = KindOf(p.Type)

	return p
}

// WithDefault sets default value.
func WithDefault(value string) func(p *Param) {
	return func(p *Param) {
		p.Default = value
		p.HasDefault = true
	}
}

// Optional disables required flag.
func Optional(p *Param) {
	p.Required = false
}

// Unannotated marks parameter as declared without binding, name is treated as discovered.
func Unannotated(p *Param) {
	p.Binding = BindingNone
	p.Named = false
	p.Required = false
}

// BoundElsewhere marks parameter as bound by another mechanism.
func BoundElsewhere(p *Param) {
	p.Binding = BindingOther
}

// Kind returns resolution strategy of parameter.
func (p Param) Kind() Kind {
	if p.kind == KindUnsupported && p.Type != nil {
		return KindOf(p.Type)
	}

	return p.kind
}

// IsRequired tells if absent value should fail resolution.
func (p Param) IsRequired() bool {
	return p.Required && !p.HasDefault
}

// KindOf classifies a Go type.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return KindUnsupported
	}

	switch t {
	case fileHeaderType:
		return KindFile
	case partType:
		return KindPart
	case urlValuesType:
		return KindMap
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		switch t.Elem() {
		case fileHeaderType:
			return KindFileList
		case partType:
			return KindPartList
		}

		if isScalar(t.Elem()) {
			return KindScalarList
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return KindUnsupported
		}

		e := t.Elem()
		if e.Kind() == reflect.String || (e.Kind() == reflect.Slice && e.Elem().Kind() == reflect.String) {
			return KindMap
		}
	default:
		if isScalar(t) {
			return KindScalar
		}
	}

	return KindUnsupported
}

// IsSimple checks if type can be resolved without explicit binding.
func IsSimple(t reflect.Type) bool {
	switch KindOf(t) {
	case KindScalar, KindScalarList, KindFile, KindFileList, KindPart, KindPartList:
		return true
	default:
		return false
	}
}

func isScalar(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return true
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
