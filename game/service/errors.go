package service

import "errors"

// Errors shared by the service layer and its session and config managers.
// Transports map them to status codes with errors.Is.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
