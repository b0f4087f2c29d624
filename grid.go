package main

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
)

// Depth is the bit width of a single channel sample.
type Depth uint8

const (
	Depth8  Depth = 8
	Depth16 Depth = 16
)

// channels per pixel: red, green, blue.
const channels = 3

func ParseDepth(s string) (Depth, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDepth, s)
	}
	d := Depth(n)
	if !d.Valid() || n != int(d) {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedDepth, n)
	}
	return d, nil
}

func (d Depth) Valid() bool { return d == Depth8 || d == Depth16 }

func (d Depth) String() string { return strconv.Itoa(int(d)) }

// Scale places b in the most significant byte of a d-bit sample. The low
// bits are zero.
func (d Depth) Scale(b byte) uint16 {
	return uint16(b) << (d - 8)
}

// MSB returns the most significant byte of a d-bit sample.
func (d Depth) MSB(v uint16) byte {
	return byte(v >> (d - 8))
}

// Pixel holds one red, green and blue sample at the owning grid's depth.
type Pixel struct {
	R, G, B uint16
}

// Grid is a Width×Height row-major array of pixels sharing one depth.
type Grid struct {
	Width, Height int
	Depth         Depth
	Pix           []Pixel
}

// NewGrid allocates a zeroed grid. Invalid dimensions or depth are
// programming errors and panic.
func NewGrid(w, h int, depth Depth) *Grid {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("file2image: negative grid size %dx%d", w, h))
	}
	if !depth.Valid() {
		panic(fmt.Sprintf("file2image: invalid depth %d", depth))
	}
	return &Grid{
		Width:  w,
		Height: h,
		Depth:  depth,
		Pix:    make([]Pixel, w*h),
	}
}

func (g *Grid) Dims() Dims { return Dims{Width: g.Width, Height: g.Height} }

// PixOffset returns the index of (x, y) in Pix. Out of range coordinates
// panic.
func (g *Grid) PixOffset(x, y int) int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		panic(fmt.Sprintf("file2image: pixel (%d,%d) outside %dx%d grid", x, y, g.Width, g.Height))
	}
	return y*g.Width + x
}

func (g *Grid) PixelAt(x, y int) Pixel {
	return g.Pix[g.PixOffset(x, y)]
}

func (g *Grid) SetPixel(x, y int, p Pixel) {
	g.Pix[g.PixOffset(x, y)] = p
}

// Image copies the grid into an opaque *image.RGBA (depth 8) or
// *image.RGBA64 (depth 16), the forms the stdlib and x/image encoders
// write without loss.
func (g *Grid) Image() image.Image {
	r := image.Rect(0, 0, g.Width, g.Height)
	if g.Depth == Depth8 {
		dst := image.NewRGBA(r)
		for i, p := range g.Pix {
			s := dst.Pix[i*4 : i*4+4 : i*4+4]
			s[0] = uint8(p.R)
			s[1] = uint8(p.G)
			s[2] = uint8(p.B)
			s[3] = 0xff
		}
		return dst
	}

	dst := image.NewRGBA64(r)
	for i, p := range g.Pix {
		s := dst.Pix[i*8 : i*8+8 : i*8+8]
		s[0], s[1] = uint8(p.R>>8), uint8(p.R)
		s[2], s[3] = uint8(p.G>>8), uint8(p.G)
		s[4], s[5] = uint8(p.B>>8), uint8(p.B)
		s[6], s[7] = 0xff, 0xff
	}
	return dst
}

// GridFromImage copies the colour samples of src into a grid, keeping 16
// bits per sample when src stores them. Alpha is ignored.
func GridFromImage(src image.Image) *Grid {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := src.(type) {
	case *image.RGBA:
		return gridFrom8(w, h, m.Pix, m.Stride)
	case *image.NRGBA:
		return gridFrom8(w, h, m.Pix, m.Stride)
	case *image.RGBA64:
		return gridFrom16(w, h, m.Pix, m.Stride)
	case *image.NRGBA64:
		return gridFrom16(w, h, m.Pix, m.Stride)
	}

	g := NewGrid(w, h, Depth16)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA64)
			g.Pix[y*w+x] = Pixel{R: c.R, G: c.G, B: c.B}
		}
	}
	return g
}

func gridFrom8(w, h int, pix []byte, stride int) *Grid {
	g := NewGrid(w, h, Depth8)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+3 : x*4+3]
			g.Pix[y*w+x] = Pixel{R: uint16(s[0]), G: uint16(s[1]), B: uint16(s[2])}
		}
	}
	return g
}

func gridFrom16(w, h int, pix []byte, stride int) *Grid {
	g := NewGrid(w, h, Depth16)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			s := row[x*8 : x*8+6 : x*8+6]
			g.Pix[y*w+x] = Pixel{
				R: uint16(s[0])<<8 | uint16(s[1]),
				G: uint16(s[2])<<8 | uint16(s[3]),
				B: uint16(s[4])<<8 | uint16(s[5]),
			}
		}
	}
	return g
}
