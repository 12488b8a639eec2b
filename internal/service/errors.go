package service

import "errors"

var (
	// ErrNotFound means the record is missing or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps every input rejection; the wrapped message is safe to show.
	ErrValidation = errors.New("validation failed")
	// ErrUsernameTaken is returned by Register for an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers unknown users, wrong passwords and bad tokens.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidLinkCode means a Telegram link code is unknown, used or expired.
	ErrInvalidLinkCode = errors.New("invalid or expired link code")
)
