// Package common defines shared constants, helpers and sentinel errors used
// across the lostfound server and its admin CLI. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorInternal reports a server-side failure the client cannot act on,
	// such as an exhausted random source.
	ErrorInternal = errors.New("internal error")

	// ErrInvalidFormat reports a malformed CNIC, username, password or item field.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidCredentials reports an unknown username or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized reports a valid identity that is neither allow-listed nor admin.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUnauthenticated reports a missing, invalid or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden reports an authenticated caller with the wrong role or owner.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict reports a uniqueness violation (duplicate CNIC, username or admin).
	ErrConflict = errors.New("conflict")

	// ErrPhotosDisabled reports that no object storage is configured.
	ErrPhotosDisabled = errors.New("photo storage disabled")
)
