package resolver

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors of parameter resolution.
var (
	// ErrNotMultipart is returned when file or part is bound from a request that is not multipart.
	ErrNotMultipart = errors.New("request is not a multipart request")

	// ErrIllegalArgument is returned when request or parameter can not serve requested binding.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrMissingParameter is matched by MissingParameterError.
	ErrMissingParameter = errors.New("missing request parameter")
)

// MissingParameterError describes a required parameter that is not present in request.
type MissingParameterError struct {
	Name string
	Type reflect.Type
}

func (e *MissingParameterError) Error() string {
	typeName := "value"
	if e.Type != nil {
		typeName = e.Type.String()
	}

	return fmt.Sprintf("required %s parameter %q is not present", typeName, e.Name)
}

// Is matches ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}
