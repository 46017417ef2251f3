package cvs

import "errors"

var (
	// ErrNotFound indicates the CV does not exist or is not owned by the caller.
	ErrNotFound = errors.New("cv not found")

	// ErrValidation indicates missing required fields in the submitted CV.
	ErrValidation = errors.New("invalid cv payload")
)
