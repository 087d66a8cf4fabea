package fixture

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/broady/fixture/typeinfo"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeUnresolvableType ErrorCode = "unresolvable_type"
	CodeCyclicReference  ErrorCode = "cyclic_reference"
	CodeNoValue          ErrorCode = "no_value"
	CodeInternal         ErrorCode = "internal"
	CodeInvalidFixture   ErrorCode = "invalid_fixture"
)

// Sentinels for use with errors.Is. An *Error matches the sentinel with the
// same code.
var (
	ErrUnresolvableType = &Error{Code: CodeUnresolvableType}
	ErrCyclicReference  = &Error{Code: CodeCyclicReference}
	ErrNoValue          = &Error{Code: CodeNoValue}
	ErrInternal         = &Error{Code: CodeInternal}
	ErrInvalidFixture   = &Error{Code: CodeInvalidFixture}
)

// Error is the error returned by generation.
//
// Type is the type being generated when the error occurred. Trace lists the
// types under construction, innermost first.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Type    string         `json:"type,omitempty"`
	Trace   []string       `json:"trace,omitempty"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	out := *e
	out.Details = details
	return &out
}

func cyclicError(d typeinfo.Descriptor, trace []string) *Error {
	msg := "cyclic reference starting with: " + d.String()
	if len(trace) > 0 {
		msg += " <- " + strings.Join(trace, " <- ")
	}
	return &Error{Code: CodeCyclicReference, Message: msg, Type: d.String(), Trace: trace}
}

func noValueError(d typeinfo.Descriptor, trace []string) *Error {
	return &Error{
		Code:    CodeNoValue,
		Message: "failed to construct: " + strings.Join(trace, " <- "),
		Type:    d.String(),
		Trace:   trace,
	}
}

// wrapError converts a failure raised while generating d. Errors that are
// already an *Error pass through unchanged.
func wrapError(err error, d typeinfo.Descriptor, trace []string) error {
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	code := CodeInternal
	msg := "error during construction of: " + d.String()
	if errors.Is(err, typeinfo.ErrUnresolvable) {
		code = CodeUnresolvableType
		msg = "unresolvable type in " + d.String()
	}
	return &Error{Code: code, Message: msg, Type: d.String(), Trace: trace, cause: err}
}

func validationError(root string, valErrs validator.ValidationErrors) *Error {
	details := make(map[string]any, len(valErrs))
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := describeViolation(ve)
		details[ve.Namespace()] = msg
		messages = append(messages, ve.Namespace()+": "+msg)
	}
	return &Error{
		Code:    CodeInvalidFixture,
		Message: strings.Join(messages, "; "),
		Type:    root,
		Details: details,
	}
}

// Wording for tags that take no parameter.
var violations = map[string]string{
	"required": "was generated empty",
	"email":    "is not an email address",
	"url":      "is not a URL",
	"uuid":     "is not a UUID",
}

// Wording for tags compared against their parameter.
var bounds = map[string]string{
	"min":   "less than",
	"gte":   "less than",
	"max":   "greater than",
	"lte":   "greater than",
	"gt":    "not greater than",
	"lt":    "not less than",
	"eq":    "not equal to",
	"ne":    "equal to",
	"len":   "not exactly",
	"oneof": "not one of",
}

// describeViolation explains which constraint a generated field value broke.
// Length tags on strings and collections are reported against the length.
func describeViolation(fe validator.FieldError) string {
	subject := fmt.Sprintf("generated value %v", fe.Value())
	switch fe.Tag() {
	case "min", "max", "len":
		switch fe.Kind() {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
			subject = fmt.Sprintf("generated %s of length %d", fe.Kind(), reflect.ValueOf(fe.Value()).Len())
		}
	}
	if text, ok := violations[fe.Tag()]; ok {
		return subject + " " + text
	}
	if text, ok := bounds[fe.Tag()]; ok {
		return fmt.Sprintf("%s is %s %s", subject, text, fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s fails %s=%s", subject, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s fails %s", subject, fe.Tag())
}
