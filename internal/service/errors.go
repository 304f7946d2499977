package service

import "errors"

// Business outcomes of the auth workflows. The HTTP layer matches these
// with errors.Is and maps each one to a status code. Anything else that
// comes out of the service is an infrastructure fault.
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotVerified    = errors.New("user is not verified")
)
