package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/swaggest/fbind/binder"
	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/usecase/status"
)

// ErrResponse is HTTP error response body.
type ErrResponse struct {
	StatusText string                 `json:"status,omitempty"`
	ErrorText  string                 `json:"error,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// RequestErrors collects field errors of request decoding.
type RequestErrors map[string][]string

// Error returns error message.
func (re RequestErrors) Error() string {
	return "request decoding failed"
}

// DecodeError marks failure of request decoding.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	return e.Err.Error()
}

// Unwrap returns decoding failure.
func (e DecodeError) Unwrap() error {
	return e.Err
}

// Err creates HTTP error response and status code for an error.
//
// Use case errors wrapped with status.InvalidArgument are reported as bad requests.
func Err(err error) (ErrResponse, int) {
	er := ErrResponse{
		StatusText: "INTERNAL",
		ErrorText:  err.Error(),
	}
	code := http.StatusInternalServerError

	var (
		de  DecodeError
		re  RequestErrors
		mpe *resolver.MissingParameterError
		ce  *binder.ConversionError
	)

	switch {
	case errors.Is(err, resolver.ErrNotMultipart):
		er.StatusText = "UNSUPPORTED_MEDIA_TYPE"
		code = http.StatusUnsupportedMediaType
	case errors.As(err, &de),
		errors.Is(err, resolver.ErrMissingParameter),
		errors.Is(err, resolver.ErrIllegalArgument),
		errors.Is(err, status.InvalidArgument),
		errors.As(err, &ce):
		er.StatusText = "INVALID_ARGUMENT"
		code = http.StatusBadRequest
	}

	switch {
	case errors.As(err, &re):
		er.Context = map[string]interface{}{"errors": re}
	case errors.As(err, &mpe):
		er.Context = map[string]interface{}{"parameter": mpe.Name}
	case errors.As(err, &ce):
		er.Context = map[string]interface{}{"parameter": ce.Name, "value": ce.Value}
	}

	return er, code
}

func defaultErrResp(_ context.Context, err error) (interface{}, int) {
	return Err(err)
}
