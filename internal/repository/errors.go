package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnsafePath is returned when a file name would escape the
	// project directory
	ErrUnsafePath = errors.New("unsafe path")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncoding is returned when a document could not be written even
	// after the character-stripping retry
	ErrEncoding = errors.New("encoding failure")
)
