package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes callers branch on.
type ErrorKind string

const (
	KindUnknown           ErrorKind = "unknown"
	KindAuth              ErrorKind = "auth_error"
	KindProfileProvision  ErrorKind = "profile_provision_error"
	KindFileTooLarge      ErrorKind = "file_too_large"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindUploadTimeout     ErrorKind = "upload_timeout"
	KindBackend           ErrorKind = "backend_error"
	KindInsertRejected    ErrorKind = "insert_rejected"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInvalidInput      ErrorKind = "invalid_input"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrSessionNotFound    = errors.New("session not found")

	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrObjectNotFound  = errors.New("object not found")

	// ErrIdentityNotVisible is returned by profile stores when the referenced
	// user row has not propagated yet. It is safe to retry.
	ErrIdentityNotVisible = errors.New("user record not yet visible")
	ErrProfileProvision   = errors.New("profile provisioning failed")

	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported video format")
	ErrInvalidFileName   = errors.New("invalid file name")
	ErrUploadTimeout     = errors.New("upload timed out")
	ErrBackend           = errors.New("backend error")
	ErrInsertRejected    = errors.New("insert rejected")

	ErrForbidden    = errors.New("access forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// InsertRejectedError carries the status and raw body of a metadata write the
// backend answered with anything other than 201 Created.
type InsertRejectedError struct {
	Status int
	Body   string
}

func (e *InsertRejectedError) Error() string {
	return fmt.Sprintf("insert rejected: status %d: %s", e.Status, e.Body)
}

// Is lets errors.Is(err, ErrInsertRejected) match.
func (e *InsertRejectedError) Is(target error) bool {
	return target == ErrInsertRejected
}

// KindOf classifies err. Errors that match no sentinel are KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailNotConfirmed),
		errors.Is(err, ErrSessionNotFound):
		return KindAuth
	case errors.Is(err, ErrProfileProvision):
		return KindProfileProvision
	case errors.Is(err, ErrFileTooLarge):
		return KindFileTooLarge
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrInvalidFileName):
		return KindUnsupportedFormat
	case errors.Is(err, ErrUploadTimeout):
		return KindUploadTimeout
	case errors.Is(err, ErrInsertRejected):
		return KindInsertRejected
	case errors.Is(err, ErrBackend), errors.Is(err, ErrIdentityNotVisible):
		return KindBackend
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrProfileExists):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}
