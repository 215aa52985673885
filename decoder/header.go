package decoder

import (
	"net/url"

	"github.com/valyala/fasthttp"
)

func headerToURLValues(rc *fasthttp.RequestCtx) (url.Values, error) {
	var params url.Values

	rc.Request.Header.VisitAll(func(key, value []byte) {
		if params == nil {
			params = make(url.Values, 1)
		}

		k := string(key)
		params[k] = append(params[k], string(value))
	})

	return params, nil
}
