package domain

import "errors"

var (
	// ErrDuplicatePhone is returned when a phone number is already
	// registered to another user.
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrInvalidCredentials covers both unknown phone number and wrong
	// password; the two are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAccessDenied       = errors.New("access denied")
	// ErrValidation flags malformed input that reached the store.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence wraps backing-store read/write failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrSessionExpired is returned when a session exists but is past
	// its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrExtractionFailed wraps upstream voice-pipeline failures that
	// cannot be recovered locally, such as the speech-to-text call.
	// Extraction itself degrades to the keyword fallback instead.
	ErrExtractionFailed = errors.New("voice extraction failed")
)
