package apperror

import "errors"

// Kind classifies an application error independently of the transport.
// The HTTP layer decides how each kind maps to a status code.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound signals that a referenced entity does not exist,
	// or that a query produced nothing to return.
	KindNotFound
	// KindNotAllowed signals that the acting user lacks permission
	// for the requested operation or view.
	KindNotAllowed
	// KindInvalidState signals an operation that is not permitted in the
	// entity's current state (e.g. deciding an already decided booking).
	KindInvalidState
	// KindValidation signals malformed input parameters.
	KindValidation
	// KindConflict signals a uniqueness conflict (e.g. duplicate email).
	KindConflict
	// KindUnauthorized signals a failed authentication attempt.
	KindUnauthorized
)

// AppError is a custom error type that carries an error kind and an optional wrapped cause.
type AppError struct {
	Kind    Kind
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err if it is (or wraps) an AppError, KindUnknown otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
