// Package apperror defines the error taxonomy shared by every service and
// the mapping from error kinds to HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindInsufficientStock
	KindConflict
	KindPaymentRequired
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindConflict:
		return "conflict"
	case KindPaymentRequired:
		return "payment_required"
	case KindExternal:
		return "external_service"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status used for errors of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindConflict:
		return http.StatusConflict
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a stable message code (also the i18n message id)
// and a default English message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Data    map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by code so that sentinels survive WithData/Wrap copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// Wrap returns a copy of e carrying the underlying cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithData returns a copy of e with template data for the localized message.
func (e *Error) WithData(data map[string]interface{}) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Validation(code, msg string) *Error        { return newError(KindValidation, code, msg) }
func Unauthorized(code, msg string) *Error      { return newError(KindAuth, code, msg) }
func NotFound(code, msg string) *Error          { return newError(KindNotFound, code, msg) }
func InsufficientStock(code, msg string) *Error { return newError(KindInsufficientStock, code, msg) }
func Conflict(code, msg string) *Error          { return newError(KindConflict, code, msg) }
func PaymentRequired(code, msg string) *Error   { return newError(KindPaymentRequired, code, msg) }
func External(code, msg string) *Error          { return newError(KindExternal, code, msg) }
func Internal(code, msg string) *Error          { return newError(KindInternal, code, msg) }

// As extracts the first *Error in the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err; anything outside the taxonomy is internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Invalid is a validation_failed error whose localized message names reason.
func Invalid(reason string) *Error {
	return Validation("validation_failed", "invalid request: "+reason).
		WithData(map[string]interface{}{"Reason": reason})
}
