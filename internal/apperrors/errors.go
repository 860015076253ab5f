package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindTransient Kind = "transient"
	KindRateLimit Kind = "rate_limit"
	KindAuth      Kind = "auth"

	KindInvalidName      Kind = "invalid_name"
	KindInvalidSelection Kind = "invalid_selection"
	KindInvalidInput     Kind = "invalid_input"
	KindJob              Kind = "job"
	KindCanceled         Kind = "canceled"
	KindWindowLocation   Kind = "window_location"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary upstream error. Please try again."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again later."
	case KindAuth:
		return "Authentication failed. Please verify your API key and permissions."
	case KindInvalidName:
		return "Invalid name."
	case KindInvalidSelection:
		return "Invalid selection."
	case KindInvalidInput:
		return "Invalid input."
	case KindJob:
		return "Transcription failed."
	case KindCanceled:
		return "Operation canceled."
	case KindWindowLocation:
		return "Window location is unavailable."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func InvalidName(msg string) error {
	return New(KindInvalidName, msg, nil)
}

func InvalidSelection(msg string) error {
	return New(KindInvalidSelection, msg, nil)
}

func InvalidInput(msg string) error {
	return New(KindInvalidInput, msg, nil)
}

func Job(msg string, cause error) error {
	return New(KindJob, msg, cause)
}

func Canceled(cause error) error {
	return New(KindCanceled, "", cause)
}

func WindowLocation(msg string) error {
	return New(KindWindowLocation, msg, nil)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func IsKind(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	// Transient: server errors, network issues
	// RateLimit: API rate limiting
	return e.Kind == KindTransient || e.Kind == KindRateLimit
}

func IsRateLimit(err error) bool {
	return IsKind(err, KindRateLimit)
}
