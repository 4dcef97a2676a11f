package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("too many attempts")
	ErrInvalidPIN    = errors.New("invalid pin format")
	ErrBadPIN        = errors.New("incorrect pin")
	ErrNotConfigured = errors.New("auth secrets not configured")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidBackup = errors.New("invalid backup format")
)
