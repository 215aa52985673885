package middleware

import (
	"github.com/swaggest/fbind"
	"github.com/swaggest/fbind/handler"
	"github.com/swaggest/fbind/route"
	"github.com/swaggest/usecase"
)

type withRequestDecoder interface {
	SetRequestDecoder(decoder handler.RequestDecoder)
}

// RequestDecoderMiddleware sets up request decoder in suitable handlers.
//
// It is applied at route registration with route.Wrapper.
func RequestDecoderMiddleware(factory handler.RequestDecoderFactory) func(fbind.Handler) fbind.Handler {
	return func(h fbind.Handler) fbind.Handler {
		var (
			withRoute          route.HandlerWithRoute
			withUseCase        handler.HandlerWithUseCase
			withRequestDecoder withRequestDecoder
			useCaseWithInput   usecase.HasInputPort
		)

		if !route.HandlerAs(h, &withRequestDecoder) ||
			!route.HandlerAs(h, &withRoute) ||
			!route.HandlerAs(h, &withUseCase) ||
			!usecase.As(withUseCase.UseCase(), &useCaseWithInput) {
			return h
		}

		input := useCaseWithInput.InputPort()
		if input != nil {
			withRequestDecoder.SetRequestDecoder(factory.MakeDecoder(withRoute.RouteMethod(), input))
		}

		return h
	}
}

// UseCaseMiddlewares applies use case middlewares to handler.Handler.
func UseCaseMiddlewares(mw ...usecase.Middleware) func(fbind.Handler) fbind.Handler {
	return func(h fbind.Handler) fbind.Handler {
		if len(mw) == 0 {
			return h
		}

		var uh *handler.Handler
		if !route.HandlerAs(h, &uh) {
			return h
		}

		uh.SetUseCase(usecase.Wrap(uh.UseCase(), mw...))

		return h
	}
}
