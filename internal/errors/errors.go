package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error so callers can branch without string matching.
type Kind int

const (
	// KindUnknown is reported for errors that carry no domain kind.
	KindUnknown Kind = iota
	// KindValidation marks bad input shape or length.
	KindValidation
	// KindDuplicateUsername marks a username conflict on sign-up.
	KindDuplicateUsername
	// KindInvalidCredentials marks a failed sign-in. It never says which part was wrong.
	KindInvalidCredentials
	// KindUnauthenticated marks a missing or unknown access token.
	KindUnauthenticated
	// KindNotFound marks an absent operation target.
	KindNotFound
	// KindStore marks a persistence failure.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindDuplicateUsername:
		return "DuplicateUsernameError"
	case KindInvalidCredentials:
		return "InvalidCredentialsError"
	case KindUnauthenticated:
		return "UnauthenticatedError"
	case KindNotFound:
		return "NotFoundError"
	case KindStore:
		return "StoreError"
	default:
		return "UnknownError"
	}
}

const (
	msgDuplicateUsername  = "Username already exists"
	msgInvalidCredentials = "Username or password doesn't match"
	msgUnauthenticated    = "Please log in"
	msgStore              = "Could not complete the request, please try again"
	msgInternal           = "internal server error"
)

// Error is a domain error with a kind, a client-safe message and an optional cause.
type Error struct {
	Kind    Kind
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

// Is matches another *Error of the same kind, so errors.Is works against the
// zero-message values returned by the constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation creates a ValidationError with a user-facing message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// DuplicateUsername creates a DuplicateUsernameError.
func DuplicateUsername(cause error) *Error {
	return &Error{Kind: KindDuplicateUsername, Message: msgDuplicateUsername, Err: cause}
}

// InvalidCredentials creates an InvalidCredentialsError.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials}
}

// Unauthenticated creates an UnauthenticatedError.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: msgUnauthenticated}
}

// NotFound creates a NotFoundError.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Store wraps a persistence failure. The cause is kept for logs only.
func Store(cause error) *Error {
	return &Error{Kind: KindStore, Message: msgStore, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Envelope is the JSON body every endpoint answers with.
type Envelope struct {
	Response interface{} `json:"response"`
	Success  bool        `json:"success"`
}

// OK wraps a successful payload.
func OK(response interface{}) Envelope {
	return Envelope{Response: response, Success: true}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Response: message, Success: false}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToEnvelope converts an HTTPError to the failure envelope.
func (e *HTTPError) ToEnvelope() Envelope {
	return Fail(e.Message)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var de *Error
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, msgInternal)
	}

	switch de.Kind {
	case KindValidation, KindDuplicateUsername, KindNotFound:
		return NewHTTPError(http.StatusBadRequest, de.Message)
	case KindInvalidCredentials:
		return NewHTTPError(http.StatusNotFound, de.Message)
	case KindUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, de.Message)
	case KindStore:
		return NewHTTPError(http.StatusBadRequest, de.Message)
	default:
		return NewHTTPError(http.StatusInternalServerError, msgInternal)
	}
}
