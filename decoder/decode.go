package decoder

import (
	"net/url"

	"github.com/swaggest/form/v5"
	"github.com/valyala/fasthttp"
)

type (
	decoderFunc      func(rc *fasthttp.RequestCtx) (url.Values, error)
	valueDecoderFunc func(rc *fasthttp.RequestCtx, v interface{}) error
)

func makeDecoder(formDecoder *form.Decoder, decoderFunc decoderFunc) valueDecoderFunc {
	return func(rc *fasthttp.RequestCtx, v interface{}) error {
		values, err := decoderFunc(rc)
		if err != nil {
			return err
		}

		return formDecoder.Decode(v, values)
	}
}
