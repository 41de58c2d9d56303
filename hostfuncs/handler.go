package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// HostFunc is a generic function signature for host functions.
// It accepts a context and a typed request, and returns a typed response.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// This is the common interface that WASM runtimes can easily use.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// requests is shared by every JSON handler.
var requests = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := script.RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// Malformed or invalid requests are answered with a VALIDATION_ERROR
// ErrorResponse; struct requests are checked against their validate tags
// before fn runs. An empty payload decodes as the zero request.
//
// Usage:
//
//	handler := hostfuncs.NewJSONHandler(func(ctx context.Context, req wireformat.DestroyRequestWire) wireformat.DestroyResponseWire {
//	    return destroy(ctx, req)
//	})
//	respBytes, err := handler(ctx, reqBytes)
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		if err := validateRequest(req); err != nil {
			return NewValidationError(err.Error()).ToJSON(), nil
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return respBytes, nil
	}
}

func validateRequest(req any) error {
	err := requests.Struct(req)
	if _, notStruct := err.(*validator.InvalidValidationError); notStruct {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
