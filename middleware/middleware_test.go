package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggest/fbind"
	"github.com/swaggest/fbind/decoder"
	"github.com/swaggest/fbind/handler"
	"github.com/swaggest/fbind/middleware"
	"github.com/swaggest/fbind/route"
	"github.com/swaggest/usecase"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRequest(method, uri string) *fasthttp.RequestCtx {
	rc := &fasthttp.RequestCtx{}
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(uri)

	return rc
}

func TestRequestID(t *testing.T) {
	var seen string

	h := middleware.RequestID(fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		seen = fbind.RequestID(ctx)
	}))

	rc := newRequest(http.MethodGet, "/")
	h.ServeHTTP(context.Background(), rc)

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, string(rc.Response.Header.Peek(middleware.RequestIDHeader)))

	rc = newRequest(http.MethodGet, "/")
	rc.Request.Header.Set(middleware.RequestIDHeader, "req-1")
	h.ServeHTTP(context.Background(), rc)

	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", string(rc.Response.Header.Peek(middleware.RequestIDHeader)))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := fbind.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(zap.New(core)))
	r.Get("/ok", fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {}))
	r.Get("/fail", fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(http.StatusInternalServerError)
	}))

	r.ServeHTTP(context.Background(), newRequest(http.MethodGet, "/ok"))
	r.ServeHTTP(context.Background(), newRequest(http.MethodGet, "/fail"))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "request served", entries[0].Message)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	assert.NotEmpty(t, entries[0].ContextMap()["requestId"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}

func TestTimeout(t *testing.T) {
	h := middleware.Timeout(10 * time.Millisecond)(fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		<-ctx.Done()
		_, _ = rc.Write([]byte("late"))
	}))

	rc := newRequest(http.MethodGet, "/")
	h.ServeHTTP(context.Background(), rc)

	assert.Equal(t, http.StatusGatewayTimeout, rc.Response.StatusCode())
	assert.Empty(t, rc.Response.Body())

	h = middleware.Timeout(time.Second)(fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("fast"))
	}))

	rc = newRequest(http.MethodGet, "/")
	h.ServeHTTP(context.Background(), rc)

	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, "fast", string(rc.Response.Body()))
}

type echoInput struct {
	Word  string `param:"word"`
	Times int    `param:"times" default:"2"`
}

type echoOutput struct {
	Words []string `json:"words"`
}

func echoUseCase() usecase.Interactor {
	u := struct {
		usecase.Interactor
		usecase.WithInput
		usecase.WithOutput
	}{}

	u.Input = new(echoInput)
	u.Output = new(echoOutput)
	u.Interactor = usecase.Interact(func(ctx context.Context, input, output interface{}) error {
		in := input.(*echoInput)
		out := output.(*echoOutput)

		for i := 0; i < in.Times; i++ {
			out.Words = append(out.Words, in.Word)
		}

		return nil
	})

	return u
}

func TestRequestDecoderMiddleware(t *testing.T) {
	var interactions int

	counter := usecase.MiddlewareFunc(func(next usecase.Interactor) usecase.Interactor {
		return usecase.Interact(func(ctx context.Context, input, output interface{}) error {
			interactions++

			return next.Interact(ctx, input, output)
		})
	})

	r := route.NewWrapper(fbind.NewRouter())
	r.Use(
		middleware.RequestDecoderMiddleware(decoder.NewFactory(nil)),
		middleware.UseCaseMiddlewares(counter),
	)
	r.Get("/echo", handler.NewHandler(echoUseCase()))

	rc := newRequest(http.MethodGet, "/echo?word=hey")
	r.ServeHTTP(context.Background(), rc)

	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.JSONEq(t, `{"words":["hey","hey"]}`, string(rc.Response.Body()))
	assert.Equal(t, 1, interactions)

	rc = newRequest(http.MethodGet, "/echo")
	r.ServeHTTP(context.Background(), rc)

	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
	assert.Equal(t, 1, interactions)
}

func TestRequestDecoderMiddleware_skipsPlainHandler(t *testing.T) {
	r := route.NewWrapper(fbind.NewRouter())
	r.Use(middleware.RequestDecoderMiddleware(decoder.NewFactory(nil)))
	r.Get("/plain", fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		_, _ = rc.Write([]byte("plain"))
	}))

	rc := newRequest(http.MethodGet, "/plain")
	r.ServeHTTP(context.Background(), rc)

	assert.Equal(t, "plain", string(rc.Response.Body()))
}
