package decoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

var jsonContentType = []byte("application/json")

func decodeJSONBody(rc *fasthttp.RequestCtx, input interface{}) error {
	if len(rc.Request.Body()) == 0 {
		return errors.New("missing request body to decode json")
	}

	contentType := rc.Request.Header.ContentType()
	if len(contentType) > 0 && !bytes.HasPrefix(contentType, jsonContentType) { // allow 'application/json;charset=UTF-8'
		return fmt.Errorf(`request with "application/json" content type expected, %q received`, contentType)
	}

	if err := json.Unmarshal(rc.Request.Body(), input); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}

	return nil
}
