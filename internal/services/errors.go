package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorBadGateway   ErrorCode = "bad_gateway"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewBadGatewayError reports a failing upstream collaborator (data source or
// mutation) while keeping the cause reachable through errors.Is.
func NewBadGatewayError(msg string, cause error) error {
	return &ServiceError{Code: ErrorBadGateway, Message: msg, Err: cause}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrMeetingNotFound is returned when a meeting id does not resolve.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrSessionNotFound is returned for unknown or expired navigation sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMeetingCompleted is returned when a walk would change a meeting that
	// has already been completed.
	ErrMeetingCompleted = errors.New("meeting already completed")
)
