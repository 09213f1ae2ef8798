package apperr

import "errors"

var (
	ErrNotFound       = errors.New("note not found")
	ErrMalformedStore = errors.New("malformed store")
)
