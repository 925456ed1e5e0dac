package model

import "errors"

// ErrorKind classifies a failure so callers can pick the recovery policy:
// validation blocks locally, upload/persist failures abort a submission,
// export and blob-delete failures are best-effort.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindUploadFailed  ErrorKind = "upload_failed"
	KindPersistFailed ErrorKind = "persist_failed"
	KindExportFailed  ErrorKind = "export_failed"
	KindFetchFailed   ErrorKind = "fetch_failed"
	KindDeleteFailed  ErrorKind = "delete_failed"
)

// Error is a failure tagged with its kind, optionally wrapping a cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a kinded error wrapping cause (which may be nil).
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf extracts the kind from err, or an empty kind for untagged errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
