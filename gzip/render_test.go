package gzip_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fgzip "github.com/swaggest/fbind/gzip"
	"github.com/valyala/fasthttp"
)

type resource struct {
	Name string `json:"name"`
	Data string `json:"data,omitempty"`
}

type taggedResource struct {
	resource
	tag string
}

func (r taggedResource) ETag() string {
	return r.tag
}

type packedResource struct {
	gz []byte
}

func (p packedResource) GzipJSON() []byte {
	return p.gz
}

func (p packedResource) MarshalJSON() ([]byte, error) {
	panic("compressed payload must be used")
}

func newRequest(acceptGzip bool) *fasthttp.RequestCtx {
	rc := &fasthttp.RequestCtx{}
	rc.Request.Header.SetMethod(http.MethodGet)
	rc.Request.SetRequestURI("/")

	if acceptGzip {
		rc.Request.Header.Set("Accept-Encoding", "deflate, GZIP")
	}

	return rc
}

func gunzip(t *testing.T, b []byte) string {
	t.Helper()

	r, err := gzip.NewReader(bytes.NewReader(b))
	require.NoError(t, err)

	res, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(res)
}

func TestWriteResponse_small(t *testing.T) {
	rc := newRequest(true)
	fgzip.WriteResponse(rc, http.StatusCreated, resource{Name: "a"})

	assert.Equal(t, http.StatusCreated, rc.Response.StatusCode())
	assert.Equal(t, "application/json; charset=utf-8", string(rc.Response.Header.ContentType()))
	assert.Empty(t, rc.Response.Header.Peek("Content-Encoding"))
	assert.JSONEq(t, `{"name":"a"}`, string(rc.Response.Body()))
}

func TestWriteResponse_large(t *testing.T) {
	v := resource{Name: "a", Data: strings.Repeat("x", fgzip.MinCompressSize)}

	rc := newRequest(true)
	fgzip.WriteResponse(rc, http.StatusOK, v)

	assert.Equal(t, "gzip", string(rc.Response.Header.Peek("Content-Encoding")))
	assert.Less(t, len(rc.Response.Body()), fgzip.MinCompressSize)
	assert.JSONEq(t, `{"name":"a","data":"`+v.Data+`"}`, gunzip(t, rc.Response.Body()))

	rc = newRequest(false)
	fgzip.WriteResponse(rc, http.StatusOK, v)

	assert.Empty(t, rc.Response.Header.Peek("Content-Encoding"))
	assert.JSONEq(t, `{"name":"a","data":"`+v.Data+`"}`, string(rc.Response.Body()))
}

func TestWriteResponse_gzippedJSON(t *testing.T) {
	gz, err := fgzip.Compress([]byte(`{"name":"packed"}`))
	require.NoError(t, err)

	rc := newRequest(true)
	fgzip.WriteResponse(rc, http.StatusOK, packedResource{gz: gz})

	assert.Equal(t, "gzip", string(rc.Response.Header.Peek("Content-Encoding")))
	assert.Equal(t, gz, rc.Response.Body())

	rc = newRequest(false)
	fgzip.WriteResponse(rc, http.StatusOK, packedResource{gz: gz})

	assert.Empty(t, rc.Response.Header.Peek("Content-Encoding"))
	assert.JSONEq(t, `{"name":"packed"}`, string(rc.Response.Body()))
}

func TestWriteResponse_eTag(t *testing.T) {
	v := taggedResource{resource: resource{Name: "a"}, tag: `"v1"`}

	rc := newRequest(false)
	fgzip.WriteResponse(rc, http.StatusOK, v)

	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, `"v1"`, string(rc.Response.Header.Peek("Etag")))
	assert.JSONEq(t, `{"name":"a"}`, string(rc.Response.Body()))

	rc = newRequest(false)
	rc.Request.Header.Set("If-None-Match", `"v0", "v1"`)
	rc.Response.Header.Set("X-Request-Id", "req-1")
	fgzip.WriteResponse(rc, http.StatusOK, v)

	assert.Equal(t, http.StatusNotModified, rc.Response.StatusCode())
	assert.Empty(t, rc.Response.Body())
	assert.Equal(t, "req-1", string(rc.Response.Header.Peek("X-Request-Id")))

	// Error responses are not reduced.
	rc = newRequest(false)
	rc.Request.Header.Set("If-None-Match", `"v1"`)
	fgzip.WriteResponse(rc, http.StatusConflict, v)

	assert.Equal(t, http.StatusConflict, rc.Response.StatusCode())
	assert.JSONEq(t, `{"name":"a"}`, string(rc.Response.Body()))
}

func TestWriteResponse_marshalError(t *testing.T) {
	rc := newRequest(true)
	fgzip.WriteResponse(rc, http.StatusOK, map[string]interface{}{"f": func() {}})

	assert.Equal(t, http.StatusInternalServerError, rc.Response.StatusCode())
	assert.Equal(t, "text/plain; charset=utf-8", string(rc.Response.Header.ContentType()))
	assert.Contains(t, string(rc.Response.Body()), "unsupported type")
}

func TestWriteCompressedBytes_corrupted(t *testing.T) {
	rc := newRequest(false)

	assert.Error(t, fgzip.WriteCompressedBytes(rc, []byte("not gzip")))
}
