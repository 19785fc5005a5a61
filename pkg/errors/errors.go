package errors

import (
	stdErrors "errors"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"

	// CodeInsufficientStock blocks order acceptance; details carry the
	// product names that cannot be fulfilled.
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
)

// Metadata describes how a code is rendered to the panel operator.
type Metadata struct {
	HTTPStatus int
	// PublicMessage is the fallback text when the error's own message
	// must stay in the logs.
	PublicMessage string
	// ShowMessage lets the typed message replace PublicMessage. Data-layer
	// errors qualify because their messages name the failed action and never
	// the driver cause.
	ShowMessage    bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:        {http.StatusBadRequest, "validation failed", true, true},
	CodeUnauthorized:      {http.StatusUnauthorized, "authentication required", true, false},
	CodeForbidden:         {http.StatusForbidden, "access denied", true, false},
	CodeNotFound:          {http.StatusNotFound, "resource not found", true, false},
	CodeConflict:          {http.StatusConflict, "conflict detected", true, false},
	CodeStateConflict:     {http.StatusUnprocessableEntity, "state transition disallowed", true, true},
	CodeIdempotency:       {http.StatusConflict, "idempotency key reused", true, true},
	CodeInsufficientStock: {http.StatusConflict, "insufficient stock", true, true},
	CodeDependency:        {http.StatusServiceUnavailable, "dependency unavailable", true, true},
	CodeInternal:          {http.StatusInternalServerError, "internal server error", false, false},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error every service returns; handlers map it onto the
// response envelope through MetadataFor.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap keeps err reachable through errors.Is/As while message stays public.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches details in place and returns e for chaining.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// IsCode reports whether err carries the given typed code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// As returns the outermost typed error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

