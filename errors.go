package main

import (
	"errors"
	"fmt"
)

var (
	ErrCapacity         = errors.New("file2image: input does not fit in mask")
	ErrFormat           = errors.New("file2image: invalid image")
	ErrInvalidMagic     = errors.New("f2i: invalid magic")
	ErrUnsupportedDepth = errors.New("file2image: unsupported bit depth")
	ErrUnknownFormat    = errors.New("file2image: unknown image format")
)

// CapacityError reports that a mask-derived grid of Width×Height pixels
// cannot hold Length source bytes.
type CapacityError struct {
	Length        int
	Width, Height int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("file too large for mask: %d bytes need %d pixels, mask is %dx%d (%d bytes)",
		e.Length, PixelsFor(e.Length), e.Width, e.Height, e.Width*e.Height*channels)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

// FormatError wraps a rejection coming from an image codec.
type FormatError struct {
	Codec string
	Err   error
}

func (e *FormatError) Error() string {
	return e.Codec + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// IOError is returned when a source or sink file cannot be opened, read,
// written or renamed into place.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func formatError(codec string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return &FormatError{Codec: codec, Err: err}
}
