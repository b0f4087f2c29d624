package main

import (
	"fmt"
	"math"
)

// Dims is the width and height of a grid in pixels.
type Dims struct {
	Width, Height int
}

func (d Dims) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

func (d Dims) Pixels() int { return d.Width * d.Height }

// Capacity is the number of source bytes a grid of these dimensions holds.
func (d Dims) Capacity() int { return d.Pixels() * channels }

// PixelsFor returns ceil(n/3), the pixel count needed for n bytes.
func PixelsFor(n int) int {
	return (n + channels - 1) / channels
}

// SquareDims returns the smallest square grid holding n bytes. n == 0
// yields a 0x0 grid.
func SquareDims(n int) Dims {
	side := ceilSqrt(PixelsFor(n))
	return Dims{Width: side, Height: side}
}

// MaskDims returns mask unchanged if it has room for n bytes, and a
// *CapacityError otherwise.
func MaskDims(mask Dims, n int) (Dims, error) {
	if mask.Capacity() < n {
		return Dims{}, &CapacityError{Length: n, Width: mask.Width, Height: mask.Height}
	}
	return mask, nil
}

// ceilSqrt returns the smallest s with s*s >= n.
func ceilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	for s*s < n {
		s++
	}
	for s > 0 && (s-1)*(s-1) >= n {
		s--
	}
	return s
}
