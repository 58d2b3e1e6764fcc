// Package errors provides standardized error handling for quicktransfer.
// It defines the error kinds shared by the server, the API client and the
// browser controller, plus helpers for creating, wrapping and classifying
// them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Transport error kinds
	NetworkFailure
	HTTPStatus
	// Caller did something the current state does not allow
	Precondition
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Message returns the message without the wrapped cause.
func (e *ApplicationError) Message() string {
	return e.msg
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// HTTPError is a non-success response from the file server. Message holds
// whatever the server said (JSON error field or plain-text body), which may
// be empty.
type HTTPError struct {
	ApplicationError
	status  int
	message string
}

// NewHTTPError creates an error for a response with the given status.
func NewHTTPError(op string, status int, message string) *HTTPError {
	return &HTTPError{
		ApplicationError: ApplicationError{
			msg:  op,
			kind: HTTPStatus,
		},
		status:  status,
		message: message,
	}
}

// Error prefers the server's own message and falls back to the status.
func (e *HTTPError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s: %s", e.msg, e.message)
	}
	return fmt.Sprintf("%s: status %d", e.msg, e.status)
}

// Status returns the HTTP status code
func (e *HTTPError) Status() int {
	return e.status
}

// ServerMessage returns the message reported by the server, if any
func (e *HTTPError) ServerMessage() string {
	return e.message
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(op string, err error) error {
	return &ApplicationError{
		msg:  op,
		err:  err,
		kind: NetworkFailure,
	}
}

// NewPrecondition reports a user action that the current state refuses,
// e.g. deleting with nothing selected.
func NewPrecondition(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Precondition,
	}
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		switch e := err.(type) {
		case *HTTPError:
			return e.Kind()
		case *FileError:
			return e.Kind()
		case *ConfigError:
			return e.Kind()
		case *ApplicationError:
			if e.Kind() != Unknown {
				return e.Kind()
			}
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidPath checks if the error is an invalid path error
func IsInvalidPath(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == InvalidPath
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsHTTPStatus reports whether err carries a non-success HTTP status.
func IsHTTPStatus(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	return KindOf(err) == NetworkFailure
}

// IsPrecondition reports whether err is a refused user action.
func IsPrecondition(err error) bool {
	return KindOf(err) == Precondition
}
