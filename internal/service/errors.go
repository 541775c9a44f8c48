package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUserNotFound           = errors.New("user not found")
	ErrNotFound               = errors.New("not found")

	// ErrRateLimited means a code was already sent inside the cooldown window.
	ErrRateLimited = errors.New("code requested too soon")

	// ErrInvalidCode covers mismatch, expiry, absence and replay. Callers must
	// not learn which of those happened.
	ErrInvalidCode = errors.New("invalid code")

	// ErrDispatchFailed means the code was stored but could not be delivered.
	ErrDispatchFailed = errors.New("code dispatch failed")

	ErrDuplicateNumber   = errors.New("document number already in use")
	ErrIllegalTransition = errors.New("illegal status transition")
)
