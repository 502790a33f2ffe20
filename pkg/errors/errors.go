package errors

import (
	stderrors "errors"
	"fmt"
)

// Severity classifies how an error is handled by the session pipeline.
type Severity string

const (
	// SeverityFatal aborts construction; the only hard failure in the pipeline.
	SeverityFatal Severity = "fatal"
	// SeveritySkip excludes a single file from the catalog; the batch continues.
	SeveritySkip Severity = "skip"
	// SeverityDefault falls back to a safe default value (e.g. index 0).
	SeverityDefault Severity = "default"
	// SeverityNoop ignores the triggering operation entirely.
	SeverityNoop Severity = "noop"
	// SeverityReported is logged and otherwise absorbed; traversal continues.
	SeverityReported Severity = "reported"
)

// Error carries a severity alongside the failing operation and cause.
type Error struct {
	Severity Severity
	Op       string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given severity.
func New(severity Severity, op, message string) *Error {
	return &Error{Severity: severity, Op: op, Message: message}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(severity Severity, op, message string, err error) *Error {
	return &Error{Severity: severity, Op: op, Message: message, Err: err}
}

// IsFatal reports whether err (or anything it wraps) is a fatal pipeline error.
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity == SeverityFatal
	}
	return false
}

// SeverityOf returns the severity of err, or SeverityReported for plain errors.
func SeverityOf(err error) Severity {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity
	}
	return SeverityReported
}
