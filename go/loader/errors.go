package loader

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidFormat marks a signature mismatch: the input is not a PE file.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrTruncatedRead means a declared size or count runs past the end of the input.
	ErrTruncatedRead = errors.New("truncated read")
	// ErrOutOfBounds means an offset or count from the file is nonsensical.
	ErrOutOfBounds = errors.New("out of bounds")
	ErrClosed      = errors.New("loader is closed")

	UnknownMagic = errors.New("Could not identify file magic.")
)

// IsInvalidFormat reports whether err means the file is not a usable PE image.
// Nonsensical offsets count as a format error.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrOutOfBounds)
}

func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncatedRead)
}
