package project

import "errors"

var (
	// ErrProjectNotFound indicates no record is resolvable for the identifier.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrNothingToRecover indicates a directory with neither a record nor
	// loose script/scene files.
	ErrNothingToRecover = errors.New("nothing to recover")
)
