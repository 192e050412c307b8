package errs

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidPicture = errors.New("invalid picture encoding")

	// submission pipeline
	ErrValidation = errors.New("validation failed")
	ErrEncode     = errors.New("image encode failed")
	ErrTransport  = errors.New("record store unavailable")
)
