package fsutil

import "errors"

// Common errors.
var (
	// ErrEmptyOutputPath is returned when an output path is empty.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrEmptyInputPath is returned when an input path is empty.
	ErrEmptyInputPath = errors.New("input path cannot be empty")
	// ErrInputTooLarge is returned when an input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("input exceeds size limit")
)
