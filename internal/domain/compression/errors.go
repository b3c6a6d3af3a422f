package compression

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to the presentation layer.
type ErrorKind string

const (
	KindConfiguration   ErrorKind = "configuration"
	KindValidation      ErrorKind = "validation"
	KindRemoteOperation ErrorKind = "remote_operation"
	KindLocalProcess    ErrorKind = "local_process"
)

var (
	ErrNoBackend      = errors.New("no compression backend is configured")
	ErrEmptyPath      = errors.New("no file selected")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrNotPDF         = errors.New("not a PDF file")
	ErrNoExportURL    = errors.New("no file produced")
)

// Error is a classified compression failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error.
func NewError(kind ErrorKind, op, path string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
