package resolver

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/url"

	"github.com/valyala/fasthttp"
)

// Request is a view of incoming request data.
type Request interface {
	// Values returns values submitted with name, nil if there are none.
	Values(name string) []string

	// AllValues returns all submitted values.
	AllValues() url.Values

	// IsMultipart checks if request declares multipart content.
	IsMultipart() bool

	// MultipartForm returns uploaded files and form values.
	MultipartForm() (*multipart.Form, error)

	// Parts returns parts of multipart body in arrival order.
	Parts() ([]*Part, error)
}

var (
	formURLEncoded = []byte("application/x-www-form-urlencoded")
	multipartType  = []byte("multipart/")
)

// NewRequest creates request view of fasthttp request.
//
// Parsed values and parts are cached in the view, view must not outlive request.
//
// Parts are read from raw multipart body, so fasthttp.Server must be configured with
// DisablePreParseMultipartForm, otherwise part resolution fails with ErrIllegalArgument.
// Values and files are available either way.
func NewRequest(rc *fasthttp.RequestCtx) Request {
	return &request{rc: rc}
}

type request struct {
	rc *fasthttp.RequestCtx

	values url.Values

	parts     []*Part
	partsErr  error
	partsRead bool
}

func (r *request) Values(name string) []string {
	return r.AllValues()[name]
}

func (r *request) AllValues() url.Values {
	if r.values != nil {
		return r.values
	}

	r.values = make(url.Values)

	visit := func(key, value []byte) {
		k := string(key)
		r.values[k] = append(r.values[k], string(value))
	}

	r.rc.QueryArgs().VisitAll(visit)

	switch {
	case bytes.HasPrefix(bytes.ToLower(r.rc.Request.Header.ContentType()), formURLEncoded):
		var args fasthttp.Args

		args.ParseBytes(r.rc.Request.Body())
		args.VisitAll(visit)
	case r.IsMultipart():
		// Unreadable form leaves only query values, file binding reports the error.
		if f, err := r.MultipartForm(); err == nil {
			for k, vv := range f.Value {
				r.values[k] = append(r.values[k], vv...)
			}
		}
	}

	return r.values
}

func (r *request) IsMultipart() bool {
	return bytes.HasPrefix(bytes.ToLower(r.rc.Request.Header.ContentType()), multipartType)
}

func (r *request) MultipartForm() (*multipart.Form, error) {
	return r.rc.MultipartForm()
}

func (r *request) Parts() ([]*Part, error) {
	if r.partsRead {
		return r.parts, r.partsErr
	}

	r.partsRead = true

	boundary := r.rc.Request.Header.MultipartFormBoundary()
	if len(boundary) == 0 {
		r.partsErr = fmt.Errorf("%w: multipart boundary is not declared", ErrIllegalArgument)

		return nil, r.partsErr
	}

	if preParsed(&r.rc.Request) {
		r.partsErr = fmt.Errorf("%w: multipart body was pre-parsed by server, "+
			"parts require fasthttp.Server.DisablePreParseMultipartForm", ErrIllegalArgument)

		return nil, r.partsErr
	}

	r.parts, r.partsErr = readParts(r.rc.Request.Body(), string(boundary))
	if r.partsErr != nil {
		r.partsErr = fmt.Errorf("%w: failed to read parts: %v", ErrIllegalArgument, r.partsErr)
	}

	return r.parts, r.partsErr
}

// preParsed checks if body was consumed into multipart form while reading request.
//
// Such body is rebuilt from the form on every call, with values ahead of files
// and file headers replaced, so arrival order of parts is lost.
func preParsed(req *fasthttp.Request) bool {
	a, b := req.Body(), req.Body()

	return len(a) > 0 && len(b) > 0 && &a[0] != &b[0]
}
