package handler

import (
	"github.com/swaggest/usecase"
	"github.com/valyala/fasthttp"
)

// RequestDecoder maps data from fasthttp.RequestCtx into structured Go input value.
type RequestDecoder interface {
	Decode(rc *fasthttp.RequestCtx, input interface{}) error
}

// RequestDecoderFactory creates request decoder for particular structured Go input value.
type RequestDecoderFactory interface {
	MakeDecoder(method string, input interface{}) RequestDecoder
}

// HandlerWithUseCase exposes use case interactor.
type HandlerWithUseCase interface {
	UseCase() usecase.Interactor
}
