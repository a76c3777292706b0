package domain

import "errors"

// Error taxonomy shared by every layer. Callers wrap these with
// fmt.Errorf("%w: ...") and the API layer maps them with errors.Is.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)
