package core

import "errors"

// Failure classes the web layer maps onto HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrCooldown           = errors.New("roadmap generation is cooling down")
)
