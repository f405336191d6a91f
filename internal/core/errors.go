package core

import (
	"errors"
	"net/http"

	"unitune/internal/i18n"
	"unitune/pkg/musiclink"
)

// ErrorKind classifies a pipeline failure for the transport layer.
type ErrorKind int

const (
	// KindInput is a malformed or unsupported request.
	KindInput ErrorKind = iota
	// KindNotFound means the track could not be resolved.
	KindNotFound
	// KindInternal is any other failure.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a user-facing message next to the underlying cause.
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

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, key string, err error, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: i18n.Default().T(key, args...), Err: err}
}

// AsError extracts a *Error from err, classifying unknown errors as internal.
func AsError(err error) *Error {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return newError(KindInternal, i18n.ErrInternal, err)
}

// notFoundError picks the platform-specific not-found message.
func notFoundError(platform musiclink.Platform, err error) *Error {
	switch platform {
	case musiclink.PlatformTidal:
		return newError(KindNotFound, i18n.ErrTidalNotFound, err)
	case musiclink.PlatformYouTube:
		return newError(KindNotFound, i18n.ErrYouTubeNotFound, err)
	default:
		return newError(KindNotFound, i18n.ErrTrackNotFound, err)
	}
}

// shortMessage is the terse per-item message used in batch responses.
func shortMessage(err *Error) string {
	switch err.Kind {
	case KindInput:
		if errors.Is(err, musiclink.ErrNotRecognized) {
			return i18n.Default().T(i18n.ErrURLUnsupportedShort)
		}
		return err.Message
	case KindNotFound:
		return i18n.Default().T(i18n.ErrTrackNotFoundShort)
	default:
		return i18n.Default().T(i18n.ErrInternal)
	}
}
