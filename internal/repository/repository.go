package repository

import "errors"

// Errores centinela que los servicios traducen hacia afuera.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
