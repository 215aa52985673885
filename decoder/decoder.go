package decoder

import (
	"errors"
	"reflect"

	"github.com/swaggest/fbind/handler"
	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/form/v5"
	"github.com/valyala/fasthttp"
)

// decoder extracts Go value from *fasthttp.RequestCtx.
type decoder struct {
	resolver *resolver.Resolver
	decoders []valueDecoderFunc
	in       []string
	params   []paramField
}

var _ handler.RequestDecoder = &decoder{}

// Decode populates input with data from http request.
func (rm *decoder) Decode(rc *fasthttp.RequestCtx, input interface{}) error {
	for i, decode := range rm.decoders {
		err := decode(rc, input)
		if err != nil {
			var de form.DecodeErrors
			if errors.As(err, &de) {
				errs := make(handler.RequestErrors, len(de))
				for name, e := range de {
					errs[rm.in[i]+":"+name] = []string{"#: " + e.Error()}
				}

				return errs
			}

			return err
		}
	}

	if len(rm.params) == 0 {
		return nil
	}

	v := reflect.ValueOf(input)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	req := resolver.NewRequest(rc)

	for _, f := range rm.params {
		value, err := rm.resolver.Resolve(req, f.param)
		if err != nil {
			return err
		}

		// Absent value leaves zero value of the field.
		if value == nil {
			continue
		}

		v.FieldByIndex(f.index).Set(reflect.ValueOf(value))
	}

	return nil
}
