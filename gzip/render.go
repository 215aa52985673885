// Package gzip renders JSON responses with gzip compression and entity tags.
package gzip

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fasthttp"
)

// MinCompressSize is a minimal size of JSON payload to compress on the fly.
const MinCompressSize = 1024

// GzippedJSON exposes compressed JSON payload.
type GzippedJSON interface {
	GzipJSON() []byte
}

// ETagged exposes specific version of resource.
type ETagged interface {
	ETag() string
}

// WriteResponse writes value as JSON response with status code.
//
// It can serve as handler.Handler WriteResponse, headers set by middlewares are kept.
func WriteResponse(rc *fasthttp.RequestCtx, statusCode int, v interface{}) {
	rc.SetStatusCode(statusCode)

	if err := WriteJSON(rc, v); err != nil {
		rc.ResetBody()
		rc.Response.Header.Del(fasthttp.HeaderContentEncoding)
		rc.Response.Header.Del(fasthttp.HeaderETag)
		rc.SetStatusCode(fasthttp.StatusInternalServerError)
		rc.SetContentType("text/plain; charset=utf-8")
		rc.SetBodyString(err.Error())
	}
}

// WriteJSON writes JSON, compressed if client accepts gzip.
//
// Value that exposes compressed JSON is written without marshaling, other values are
// compressed when marshaled size reaches MinCompressSize. Successful response of
// ETagged value is reduced to 304 Not Modified when tag matches If-None-Match.
func WriteJSON(rc *fasthttp.RequestCtx, value interface{}) error {
	rc.SetContentType("application/json; charset=utf-8")

	if e, ok := value.(ETagged); ok {
		etag := e.ETag()
		rc.Response.Header.Set(fasthttp.HeaderETag, etag)

		if rc.Response.StatusCode() == fasthttp.StatusOK && notModified(rc, etag) {
			rc.SetStatusCode(fasthttp.StatusNotModified)

			return nil
		}
	}

	if g, ok := value.(GzippedJSON); ok {
		return WriteCompressedBytes(rc, g.GzipJSON())
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if len(b) < MinCompressSize || !acceptsGzip(rc) {
		_, err = rc.Write(b)

		return err
	}

	gzipped, err := Compress(b)
	if err != nil {
		return err
	}

	rc.Response.Header.SetContentEncoding("gzip")
	_, err = rc.Write(gzipped)

	return err
}

// WriteCompressedBytes writes compressed bytes to response.
//
// Bytes are unpacked if client does not accept gzip.
func WriteCompressedBytes(rc *fasthttp.RequestCtx, gzipped []byte) error {
	if !acceptsGzip(rc) {
		return writeUncompressedBytes(rc, gzipped)
	}

	rc.Response.Header.SetContentEncoding("gzip")
	_, err := rc.Write(gzipped)

	return err
}

// Compress packs data with default compression level.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func acceptsGzip(rc *fasthttp.RequestCtx) bool {
	ae := rc.Request.Header.Peek(fasthttp.HeaderAcceptEncoding)

	return bytes.Contains(bytes.ToLower(ae), []byte("gzip"))
}

func notModified(rc *fasthttp.RequestCtx, etag string) bool {
	inm := rc.Request.Header.Peek(fasthttp.HeaderIfNoneMatch)
	if len(inm) == 0 || etag == "" {
		return false
	}

	for _, tag := range bytes.Split(inm, []byte(",")) {
		tag = bytes.TrimSpace(tag)
		if string(tag) == "*" || string(tag) == etag {
			return true
		}
	}

	return false
}

func writeUncompressedBytes(rc *fasthttp.RequestCtx, gzipped []byte) error {
	gzr, err := gzip.NewReader(bytes.NewReader(gzipped))
	if err != nil {
		return err
	}

	// nolint:gosec // Data is compressed by the app itself.
	_, err = io.Copy(rc, gzr)

	return err
}
