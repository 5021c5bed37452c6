package auth

import "errors"

// Account errors carry the exact messages shown to users.
var (
	ErrEmailInUse        = errors.New("Email is already registered")
	ErrInvalidEmail      = errors.New("Invalid email format")
	ErrWeakPassword      = errors.New("Password is too weak (min. 6 characters)")
	ErrUserDisabled      = errors.New("Account has been disabled")
	ErrUserNotFound      = errors.New("Email not registered")
	ErrWrongPassword     = errors.New("Incorrect password")
	ErrInvalidCredential = errors.New("Invalid email or password")
	ErrTooManyRequests   = errors.New("Too many attempts, please try again later")
	ErrInvalidToken      = errors.New("Invalid or expired session")
)
