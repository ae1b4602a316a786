package models

import "fmt"

// Code is a stable machine-readable error code. Every error the
// façade returns to a caller carries one.
type Code string

const (
	CodeBadRequest          Code = "BadRequest"
	CodeEmbeddingUnavailable Code = "EmbeddingUnavailable"
	CodeIndexUnavailable    Code = "IndexUnavailable"
	CodeGeneratorUnavailable Code = "GeneratorUnavailable"
	CodeDeadlineExceeded    Code = "DeadlineExceeded"
	CodeOverloaded          Code = "Overloaded"
	CodeInvalidDocument     Code = "InvalidDocument"
)

// Error carries a stable code, a human-readable message, and an
// optional wrapped cause so errors.Is/errors.As work across package
// boundaries.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is implements errors.Is for comparisons against another *Error with
// the same Code, so callers can do errors.Is(err, &models.Error{Code:
// models.CodeIndexUnavailable}) without matching Message/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newErr(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

func NewBadRequest(msg string) *Error { return newErr(CodeBadRequest, msg, nil) }

func NewEmbeddingUnavailable(cause error) *Error {
	return newErr(CodeEmbeddingUnavailable, "embedding provider failed or timed out", cause)
}

func NewIndexUnavailable(cause error) *Error {
	return newErr(CodeIndexUnavailable, "index engine failed", cause)
}

func NewGeneratorUnavailable(cause error) *Error {
	return newErr(CodeGeneratorUnavailable, "rag generator failed or timed out", cause)
}

func NewDeadlineExceeded(msg string) *Error { return newErr(CodeDeadlineExceeded, msg, nil) }

func NewOverloaded(msg string) *Error { return newErr(CodeOverloaded, msg, nil) }

func NewInvalidDocument(cause error) *Error {
	return newErr(CodeInvalidDocument, "document rejected", cause)
}
