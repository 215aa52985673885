package main

import (
	"github.com/swaggest/fbind"
	"github.com/swaggest/fbind/binder"
	"github.com/swaggest/fbind/decoder"
	"github.com/swaggest/fbind/gzip"
	"github.com/swaggest/fbind/handler"
	"github.com/swaggest/fbind/middleware"
	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/fbind/route"
	"go.uber.org/zap"
)

func newRouter(cfg Config, logger *zap.Logger) fbind.Handler {
	var options []func(f *binder.Factory)
	if cfg.TrimEmpty {
		options = append(options, binder.WithRule(binder.TrimSpace{EmptyAsNull: true}))
	}

	df := decoder.NewFactory(resolver.New(binder.NewFactory(options...), cfg.SimpleTypes))

	mux := fbind.NewRouter()
	mux.Use(
		middleware.RealIP,
		middleware.RequestID,
		middleware.Logger(logger),
	)

	if cfg.RequestTimeout > 0 {
		mux.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r := route.NewWrapper(mux)
	r.Use(middleware.RequestDecoderMiddleware(df))

	withLogger := handler.WithLogger(logger)
	withGzip := func(h *handler.Handler) {
		h.WriteResponse = gzip.WriteResponse
	}

	r.Get("/greet", handler.NewHandler(greet(), withLogger, withGzip))
	r.Post("/upload", handler.NewHandler(upload(), withLogger, withGzip))
	r.Put("/upload", handler.NewHandler(upload(), withLogger, withGzip))
	r.Put("/parts", handler.NewHandler(parts(), withLogger, withGzip))
	r.Post("/parts", handler.NewHandler(parts(), withLogger, withGzip))
	r.Get("/params", handler.NewHandler(params(), withLogger, withGzip))

	return r
}
