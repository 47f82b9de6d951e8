package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValueIsRequired classifies missing mandatory input.
	ErrValueIsRequired = errors.New("value is required")
	// ErrValueIsInvalid classifies malformed input.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange classifies input outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrObjectNotFound classifies lookups that matched nothing.
	ErrObjectNotFound = errors.New("object not found")
	// ErrAccessDenied classifies actions the caller may not perform.
	ErrAccessDenied = errors.New("access denied")
)

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause is NewValueIsRequiredError with an underlying cause
// that stays visible to errors.Is and errors.As.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsRequired.
func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// Is reports whether target is in the cause chain.
func (e *ValueIsRequiredError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// ValueIsInvalidError reports a value that is present but unacceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause is NewValueIsInvalidError with an underlying cause
// that stays visible to errors.Is and errors.As.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsInvalid.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// Is reports whether target is in the cause chain.
func (e *ValueIsInvalidError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause is NewValueIsOutOfRangeError with an underlying cause
// that stays visible to errors.Is and errors.As.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max)), e.Cause)
}

// Unwrap returns ErrValueIsOutOfRange.
func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// Is reports whether target is in the cause chain.
func (e *ValueIsOutOfRangeError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates a ObjectNotFoundError.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause is NewObjectNotFoundError with an underlying cause
// that stays visible to errors.Is and errors.As.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error implements the error interface.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

// Unwrap returns ErrObjectNotFound.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// Is reports whether target is in the cause chain.
func (e *ObjectNotFoundError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// AccessDeniedError reports an action the caller is not permitted to perform.
type AccessDeniedError struct {
	Action string
	Cause  error
}

// NewAccessDeniedError creates a AccessDeniedError.
func NewAccessDeniedError(action string) *AccessDeniedError {
	return &AccessDeniedError{Action: action}
}

// NewAccessDeniedErrorWithCause is NewAccessDeniedError with an underlying cause
// that stays visible to errors.Is and errors.As.
func NewAccessDeniedErrorWithCause(action string, cause error) *AccessDeniedError {
	return &AccessDeniedError{Action: action, Cause: cause}
}

// Error implements the error interface.
func (e *AccessDeniedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrAccessDenied, e.Action), e.Cause)
}

// Unwrap returns ErrAccessDenied.
func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// Is reports whether target is in the cause chain.
func (e *AccessDeniedError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// sanitize keeps caller-supplied values on one line.
func sanitize(v any) string {
	return strings.Join(strings.Fields(fmt.Sprint(v)), " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}
