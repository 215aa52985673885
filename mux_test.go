package fbind

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestMuxBasic(t *testing.T) {
	var count uint64
	countermw := func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			count++
			next.ServeHTTP(ctx, rc)
		})
	}

	usermw := func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			ctx = context.WithValue(ctx, ctxKey{"user"}, "peter")
			next.ServeHTTP(ctx, rc)
		})
	}

	logbuf := bytes.NewBufferString("")
	logmsg := "logmw test"
	logmw := func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			logbuf.WriteString(logmsg)
			next.ServeHTTP(ctx, rc)
		})
	}

	cxindex := HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		user := ctx.Value(ctxKey{"user"}).(string)
		rc.SetStatusCode(200)
		_, _ = rc.Write([]byte(fmt.Sprintf("hi %s", user)))
	})

	ping := func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(200)
		_, _ = rc.Write([]byte("."))
	}

	createPing := func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.Response.SetStatusCode(201)
	}

	pingAll := func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.Response.SetStatusCode(200)
		_, _ = rc.Write([]byte("ping all"))
	}

	catchAll := func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.Response.SetStatusCode(200)
		_, _ = rc.Write([]byte("catchall"))
	}

	m := NewRouter()
	m.Use(countermw)
	m.Use(usermw)
	m.Use(logmw)
	m.Get("/", cxindex)
	m.Method("GET", "/ping", HandlerFunc(ping))
	m.Method("get", "/ping/all", HandlerFunc(pingAll))
	m.Post("/ping", HandlerFunc(createPing))
	m.Handle("/admin/*", HandlerFunc(catchAll))

	ts := NewTestServer(m)
	defer ts.Close()

	_, body := testRequest(t, ts, "GET", "/", nil)
	assert.Equal(t, "hi peter", body)

	tlogmsg, _ := logbuf.ReadString(0)
	assert.Equal(t, logmsg, tlogmsg)

	_, body = testRequest(t, ts, "GET", "/ping", nil)
	assert.Equal(t, ".", body)

	_, body = testRequest(t, ts, "GET", "/ping/all", nil)
	assert.Equal(t, "ping all", body)

	resp, _ := testRequest(t, ts, "POST", "/ping", nil)
	assert.Equal(t, 201, resp.StatusCode)

	_, body = testRequest(t, ts, "GET", "/admin/catch-thazzzzz", nil)
	assert.Equal(t, "catchall", body)

	resp, body = testRequest(t, ts, "POST", "/admin/casdfsadfs", bytes.NewReader([]byte{}))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "catchall", body)

	resp, _ = testRequest(t, ts, "PUT", "/ping", nil)
	assert.Equal(t, 405, resp.StatusCode)

	resp, body = testRequest(t, ts, "GET", "/nope", nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "404 page not found", body)

	assert.Equal(t, uint64(8), count)
}

func TestMuxEmptyRoutes(t *testing.T) {
	mx := NewRouter()

	assert.Equal(t, "404 page not found", testHandler(mx, "GET", "/"))
	assert.Equal(t, "404 page not found", testHandler(mx, "GET", "/hi"))
}

func TestMuxNotFound(t *testing.T) {
	r := NewRouter()
	r.Get("/hi", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("bye"))
	}))
	r.NotFound(HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(404)
		_, _ = rc.Write([]byte("nothing here"))
	}))
	r.MethodNotAllowed(HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(405)
		_, _ = rc.Write([]byte("nope"))
	}))

	assert.Equal(t, "bye", testHandler(r, "GET", "/hi"))
	assert.Equal(t, "nothing here", testHandler(r, "GET", "/hi/there"))
	assert.Equal(t, "nope", testHandler(r, "POST", "/hi"))
}

func TestMuxWith(t *testing.T) {
	var cmwInit1, cmwHandler1 uint64
	var cmwInit2, cmwHandler2 uint64
	mw1 := func(next Handler) Handler {
		cmwInit1++
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			cmwHandler1++
			ctx = context.WithValue(ctx, ctxKey{"inline1"}, "yes")
			next.ServeHTTP(ctx, rc)
		})
	}
	mw2 := func(next Handler) Handler {
		cmwInit2++
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			cmwHandler2++
			ctx = context.WithValue(ctx, ctxKey{"inline2"}, "yes")
			next.ServeHTTP(ctx, rc)
		})
	}

	r := NewRouter()
	r.Get("/hi", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("bye"))
	}))
	r.With(mw1).With(mw2).Get("/inline", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		v1 := ctx.Value(ctxKey{"inline1"}).(string)
		v2 := ctx.Value(ctxKey{"inline2"}).(string)
		_, _ = rc.Write([]byte(fmt.Sprintf("inline %s %s", v1, v2)))
	}))

	assert.Equal(t, "bye", testHandler(r, "GET", "/hi"))
	assert.Equal(t, "inline yes yes", testHandler(r, "GET", "/inline"))
	assert.Equal(t, uint64(1), cmwInit1)
	assert.Equal(t, uint64(1), cmwHandler1)
	assert.Equal(t, uint64(1), cmwInit2)
	assert.Equal(t, uint64(1), cmwHandler2)
}

func TestMuxRouteGroups(t *testing.T) {
	var stdmwInit, stdmwHandler uint64

	stdmw := func(next Handler) Handler {
		stdmwInit++
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			stdmwHandler++
			next.ServeHTTP(ctx, rc)
		})
	}

	r := NewRouter()
	r.Group(func(r Router) {
		r.Use(stdmw)
		r.Get("/group", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			_, _ = rc.Write([]byte("root group"))
		}))
	})
	r.Get("/plain", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("plain"))
	}))

	assert.Equal(t, "root group", testHandler(r, "GET", "/group"))
	assert.Equal(t, "plain", testHandler(r, "GET", "/plain"))
	assert.Equal(t, uint64(1), stdmwInit)
	assert.Equal(t, uint64(1), stdmwHandler)
}

func TestMuxRoutes(t *testing.T) {
	h := HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {})

	r := NewRouter()
	r.Get("/b", h)
	r.Post("/b", h)
	r.Put("/a", h)
	r.Handle("/files/*", h)

	assert.Equal(t, []Route{
		{Pattern: "/a", Methods: []string{"PUT"}},
		{Pattern: "/b", Methods: []string{"GET", "POST"}},
		{Pattern: "/files/*", Methods: []string{"*"}},
	}, r.Routes())
}

func TestMuxWildcardRoutePrecedence(t *testing.T) {
	r := NewRouter()
	r.Get("/*", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("root"))
	}))
	r.Get("/static/*", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("static"))
	}))
	r.Get("/static/index.html", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("index"))
	}))

	assert.Equal(t, "root", testHandler(r, "GET", "/anything"))
	assert.Equal(t, "static", testHandler(r, "GET", "/static/app.js"))
	assert.Equal(t, "index", testHandler(r, "GET", "/static/index.html"))
}

func TestMiddlewarePanicOnLateUse(t *testing.T) {
	handler := HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("hello\n"))
	})

	mw := func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			next.ServeHTTP(ctx, rc)
		})
	}

	r := NewRouter()
	r.Get("/", handler)

	assert.Panics(t, func() { r.Use(mw) })
	assert.Panics(t, func() { r.Get("no-slash", handler) })
	assert.Panics(t, func() { r.Method("", "/", handler) })
}

func TestRequestHandler(t *testing.T) {
	r := NewRouter()
	r.Get("/id", HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte(RequestID(WithRequestID(ctx, "abc"))))
	}))

	rc := &fasthttp.RequestCtx{}
	rc.Request.SetRequestURI("/id")

	RequestHandler(r)(rc)

	assert.Equal(t, "abc", string(rc.Response.Body()))
	assert.Empty(t, RequestID(context.Background()))
}

func testRequest(t *testing.T, ts *TestServer, method, path string, body io.Reader) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, resp.Body.Close())
	}()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(respBody)
}

func testHandler(h Handler, method, path string) string {
	rc := fasthttp.RequestCtx{}
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(path)

	h.ServeHTTP(context.Background(), &rc)

	return string(rc.Response.Body())
}
