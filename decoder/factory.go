package decoder

import (
	"reflect"
	"strings"

	"github.com/swaggest/fbind/binder"
	"github.com/swaggest/fbind/handler"
	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/form/v5"
	"github.com/valyala/fasthttp"
)

const (
	inHeader = "header"
	inCookie = "cookie"
	inBody   = "body"
)

var _ handler.RequestDecoderFactory = &Factory{}

// Factory decodes http requests.
//
// Please use NewFactory to create instance.
type Factory struct {
	resolver *resolver.Resolver

	in               []string
	formDecoders     map[string]*form.Decoder
	decoderFunctions map[string]decoderFunc
}

// NewFactory creates request decoder factory.
//
// Nil resolver is replaced with a resolver of default binder that resolves simple types by default.
func NewFactory(r *resolver.Resolver) *Factory {
	if r == nil {
		r = resolver.New(binder.NewFactory(), true)
	}

	f := &Factory{
		resolver: r,
		in:       []string{inHeader, inCookie},
		decoderFunctions: map[string]decoderFunc{
			inHeader: headerToURLValues,
			inCookie: cookiesToURLValues,
		},
	}
	f.formDecoders = make(map[string]*form.Decoder, len(f.decoderFunctions))

	for in := range f.decoderFunctions {
		dec := form.NewDecoder()
		dec.SetTagName(in)
		dec.SetMode(form.ModeExplicit)
		f.formDecoders[in] = dec
	}

	return f
}

// MakeDecoder creates handler.RequestDecoder for a http method and request structure.
//
// Parameter descriptors are built from request structure once.
// Only for methods with body semantics (POST, PUT, PATCH) request structure is checked for `json` tags.
func (df *Factory) MakeDecoder(method string, input interface{}) handler.RequestDecoder {
	inputType := reflect.TypeOf(input)

	m := decoder{
		resolver: df.resolver,
		decoders: make([]valueDecoderFunc, 0),
		in:       make([]string, 0),
	}

	method = strings.ToUpper(method)

	if method == fasthttp.MethodPost || method == fasthttp.MethodPut || method == fasthttp.MethodPatch {
		if hasFieldTags(inputType, "json") {
			m.decoders = append(m.decoders, decodeJSONBody)
			m.in = append(m.in, inBody)
		}
	}

	for _, in := range df.in {
		if hasFieldTags(inputType, in) {
			m.decoders = append(m.decoders, makeDecoder(df.formDecoders[in], df.decoderFunctions[in]))
			m.in = append(m.in, in)
		}
	}

	for _, f := range paramFields(inputType, nil) {
		if df.resolver.Supports(f.param) {
			m.params = append(m.params, f)
		}
	}

	return &m
}

// RegisterFunc adds custom type handling for header and cookie values.
func (df *Factory) RegisterFunc(fn form.DecodeFunc, types ...interface{}) {
	for _, fd := range df.formDecoders {
		fd.RegisterFunc(fn, types...)
	}
}
