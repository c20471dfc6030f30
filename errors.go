package audiograph

import "errors"

var (
	// ErrInvalidObject is returned by methods called on a destroyed or
	// never-created object.
	ErrInvalidObject = errors.New("audiograph: invalid object")

	errClosed = errors.New("audiograph: system closed")
)
