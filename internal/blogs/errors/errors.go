package errors

import "errors"

var (
	ErrNotFound = errors.New("blog not found")

	ErrInvalidID = errors.New("invalid blog ID format")
)
