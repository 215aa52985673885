package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/swaggest/fbind"
	"github.com/swaggest/usecase"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var _ fbind.Handler = &Handler{}

// NewHandler creates use case http handler.
func NewHandler(useCase usecase.Interactor, options ...func(h *Handler)) *Handler {
	h := &Handler{
		options: options,
		logger:  zap.NewNop(),
	}
	h.SetUseCase(useCase)

	return h
}

// WithLogger sets handler logger.
func WithLogger(logger *zap.Logger) func(h *Handler) {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithRequestDecoder sets request decoder.
func WithRequestDecoder(requestDecoder RequestDecoder) func(h *Handler) {
	return func(h *Handler) {
		h.requestDecoder = requestDecoder
	}
}

// UseCase returns use case interactor.
func (h *Handler) UseCase() usecase.Interactor {
	return h.useCase
}

// SetUseCase prepares handler for a use case.
func (h *Handler) SetUseCase(useCase usecase.Interactor) {
	h.useCase = useCase

	for _, option := range h.options {
		option(h)
	}

	h.setupInputBuffer()
	h.setupOutputBuffer()
}

// Handler is a use case http handler with input decoding.
//
// Please use NewHandler to create instance.
type Handler struct {
	// WriteResponse overrides default JSON writer,
	// can be used to alter content type and/or marshaler.
	WriteResponse func(rc *fasthttp.RequestCtx, statusCode int, v interface{})

	// MakeErrResp overrides error response builder.
	MakeErrResp func(ctx context.Context, err error) (interface{}, int)

	// SuccessfulResponseCode is set to 200 or 204 if not configured.
	SuccessfulResponseCode int

	// requestDecoder maps data from fasthttp.RequestCtx into structured Go input value.
	requestDecoder RequestDecoder

	logger  *zap.Logger
	options []func(h *Handler)

	useCase usecase.Interactor

	outputBufferType reflect.Type
	inputBufferType  reflect.Type
	skipRendering    bool
}

// SetRequestDecoder sets request decoder.
func (h *Handler) SetRequestDecoder(requestDecoder RequestDecoder) {
	h.requestDecoder = requestDecoder
}

// InputType returns type of use case input, nil if use case has no input.
func (h *Handler) InputType() reflect.Type {
	return h.inputBufferType
}

// ServeHTTP serves http request with use case interactor.
func (h *Handler) ServeHTTP(ctx context.Context, rc *fasthttp.RequestCtx) {
	var (
		input, output interface{}
		err           error
	)

	if h.inputBufferType != nil {
		if h.requestDecoder == nil {
			panic("request decoder is not initialized, please use SetRequestDecoder")
		}

		input = reflect.New(h.inputBufferType).Interface()

		err = h.requestDecoder.Decode(rc, input)
		if err != nil {
			h.logger.Debug("request decoding failed",
				zap.String("requestId", fbind.RequestID(ctx)),
				zap.ByteString("method", rc.Method()),
				zap.ByteString("path", rc.Path()),
				zap.Error(err),
			)

			h.writeError(ctx, rc, DecodeError{Err: err})

			return
		}
	}

	if h.outputBufferType != nil {
		output = reflect.New(h.outputBufferType).Interface()
	}

	err = h.useCase.Interact(ctx, input, output)
	if err != nil {
		h.logger.Warn("use case failed",
			zap.String("requestId", fbind.RequestID(ctx)),
			zap.ByteString("path", rc.Path()),
			zap.Error(err),
		)

		h.writeError(ctx, rc, err)

		return
	}

	if h.skipRendering {
		rc.SetStatusCode(h.SuccessfulResponseCode)

		return
	}

	h.writeResponse(rc, h.SuccessfulResponseCode, output)
}

func (h *Handler) writeError(ctx context.Context, rc *fasthttp.RequestCtx, err error) {
	makeErrResp := h.MakeErrResp
	if makeErrResp == nil {
		makeErrResp = defaultErrResp
	}

	er, sc := makeErrResp(ctx, err)
	h.writeResponse(rc, sc, er)
}

func (h *Handler) writeResponse(rc *fasthttp.RequestCtx, statusCode int, v interface{}) {
	if h.WriteResponse != nil {
		h.WriteResponse(rc, statusCode, v)

		return
	}

	rc.SetContentType("application/json; charset=utf-8")

	b, err := json.Marshal(v)
	if err != nil {
		rc.SetStatusCode(fasthttp.StatusInternalServerError)
		rc.SetContentType("text/plain; charset=utf-8")
		_, _ = rc.Write([]byte(err.Error()))

		return
	}

	rc.SetStatusCode(statusCode)
	_, _ = rc.Write(b)
}

func (h *Handler) setupInputBuffer() {
	h.inputBufferType = nil

	var withInput usecase.HasInputPort
	if !usecase.As(h.useCase, &withInput) {
		return
	}

	h.inputBufferType = reflect.TypeOf(withInput.InputPort())
	if h.inputBufferType != nil {
		if h.inputBufferType.Kind() == reflect.Ptr {
			h.inputBufferType = h.inputBufferType.Elem()
		}
	}
}

func (h *Handler) setupOutputBuffer() {
	h.outputBufferType = nil
	h.skipRendering = false

	var withOutput usecase.HasOutputPort
	if usecase.As(h.useCase, &withOutput) {
		h.outputBufferType = reflect.TypeOf(withOutput.OutputPort())
	}

	if h.outputBufferType != nil {
		if h.outputBufferType.Kind() == reflect.Ptr {
			h.outputBufferType = h.outputBufferType.Elem()
		}
	} else {
		h.skipRendering = true
	}

	if h.SuccessfulResponseCode != 0 {
		return
	}

	if h.outputBufferType == nil {
		h.SuccessfulResponseCode = http.StatusNoContent
	} else {
		h.SuccessfulResponseCode = http.StatusOK
	}
}
