package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport layer can decide how to surface them.
type ErrorKind string

const (
	KindInternal      ErrorKind = "internal"
	KindTransient     ErrorKind = "transient"
	KindConflict      ErrorKind = "conflict"
	KindLimitExceeded ErrorKind = "limit_exceeded"
	KindForbidden     ErrorKind = "forbidden"
	KindInvalidState  ErrorKind = "invalid_state"
	KindNotFound      ErrorKind = "not_found"
	KindInvalidInput  ErrorKind = "invalid_input"
	KindUnauthorized  ErrorKind = "unauthorized"
)

// Error is the application error carried across layers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError attaches a kind to an underlying error.
func WrapError(err error, kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// Common errors
var (
	ErrInvalidInput = NewError(KindInvalidInput, "invalid input")
	ErrUnavailable  = NewError(KindTransient, "service temporarily unavailable")
	ErrConflict     = NewError(KindConflict, "record already exists")
)

// User & session errors
var (
	ErrUserNotFound       = NewError(KindNotFound, "user not found")
	ErrEmailTaken         = NewError(KindConflict, "email already registered")
	ErrInvalidCredentials = NewError(KindUnauthorized, "invalid email or password")
	ErrInvalidToken       = NewError(KindUnauthorized, "invalid token")
	ErrSessionNotFound    = NewError(KindUnauthorized, "session not found")
	ErrSessionExpired     = NewError(KindUnauthorized, "session expired")
	ErrAdminOnly          = NewError(KindForbidden, "admin access required")
)

// Profile errors
var (
	ErrProfileNotFound      = NewError(KindNotFound, "profile not found")
	ErrProfileAlreadyExists = NewError(KindConflict, "profile already exists")
)

// Interest errors
var (
	ErrInterestNotFound     = NewError(KindNotFound, "interest not found")
	ErrCannotInterestSelf   = NewError(KindInvalidInput, "cannot send interest to yourself")
	ErrActiveInterestExists = NewError(KindConflict, "an active interest already exists between these users")
	ErrInterestLimitReached = NewError(KindLimitExceeded, "you have reached the maximum number of mutual interests")
	ErrSenderLimitReached   = NewError(KindLimitExceeded, "the sender has reached their mutual interest limit")
	ErrActiveSentLimit      = NewError(KindLimitExceeded, "you have reached the maximum number of active interests; wait for responses or withdraw pending ones")
	ErrNotInterestRecipient = NewError(KindForbidden, "only the recipient can respond to this interest")
	ErrNotInterestSender    = NewError(KindForbidden, "only the sender can cancel this interest")
	ErrNotInterestMember    = NewError(KindForbidden, "you are not part of this interest")
	ErrInterestNotPending   = NewError(KindInvalidState, "interest is no longer pending")
	ErrInterestNotAccepted  = NewError(KindInvalidState, "interest is not accepted")
)

// Notification errors
var (
	ErrNotificationNotFound  = NewError(KindNotFound, "notification not found")
	ErrNotNotificationOwner  = NewError(KindForbidden, "notification belongs to another user")
	ErrEmptyNotificationText = NewError(KindInvalidInput, "notification message is required")
)
