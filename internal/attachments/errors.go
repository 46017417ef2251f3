package attachments

import "errors"

var (
	ErrNotFound     = errors.New("attachment not found")
	ErrInvalidInput = errors.New("invalid attachment input")
)
