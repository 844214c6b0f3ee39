package mssession

import "errors"

var (
	// ErrValueAbsent reports that a persisted signal has no value
	ErrValueAbsent = errors.New("mssession.value_absent")

	// ErrInvalidMode indicates an unknown referrer classification mode
	ErrInvalidMode = errors.New("mssession.invalid_mode")

	// ErrInvalidTimeout indicates a non-positive inactivity timeout
	ErrInvalidTimeout = errors.New("mssession.invalid_timeout")

	// ErrInvalidPrefix indicates a session id prefix that would break the id format
	ErrInvalidPrefix = errors.New("mssession.invalid_prefix")

	// ErrInvalidAllowlist indicates an internal hosts file that cannot be read
	ErrInvalidAllowlist = errors.New("mssession.invalid_allowlist")
)
