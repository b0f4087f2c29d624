package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var errEmptyImage = errors.New("cannot store a 0x0 image")

// Codec persists grids in one image format. Encode and Decode errors are
// *FormatError values.
type Codec interface {
	Name() string
	Extensions() []string
	Supports(depth Depth) bool
	Encode(w io.Writer, g *Grid) error
	Decode(r io.Reader) (*Grid, error)
}

var codecs = []Codec{
	pngCodec{},
	tiffCodec{},
	bmpCodec{},
	f2iCodec{},
}

// CodecByName returns the codec called name ("png", "tiff", "bmp", "f2i").
func CodecByName(name string) (Codec, error) {
	name = strings.ToLower(name)
	for _, c := range codecs {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// CodecForPath picks a codec from the file extension of path.
func CodecForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range codecs {
		if slices.Contains(c.Extensions(), ext) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: no codec for extension %q", ErrUnknownFormat, ext)
}

// EncodeGrid encodes g with c into memory, so nothing reaches disk unless
// the whole image encoded.
func EncodeGrid(c Codec, g *Grid) ([]byte, error) {
	if !c.Supports(g.Depth) {
		return nil, fmt.Errorf("%s: %w: %d", c.Name(), ErrUnsupportedDepth, g.Depth)
	}
	var b bytes.Buffer
	if err := c.Encode(&b, g); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeGrid sniffs the format of r among the registered image formats and
// returns its samples as a grid, with the name of the format.
func DecodeGrid(r io.Reader) (*Grid, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", &FormatError{Codec: "image", Err: ErrUnknownFormat}
		}
		return nil, "", formatError(name, err)
	}
	return GridFromImage(img), name, nil
}

// DecodeDims reads only the header of an image in any registered format.
func DecodeDims(r io.Reader) (Dims, string, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Dims{}, "", &FormatError{Codec: "image", Err: ErrUnknownFormat}
		}
		return Dims{}, "", formatError(name, err)
	}
	return Dims{Width: cfg.Width, Height: cfg.Height}, name, nil
}

type pngCodec struct{}

func (pngCodec) Name() string              { return "png" }
func (pngCodec) Extensions() []string      { return []string{".png"} }
func (pngCodec) Supports(depth Depth) bool { return depth.Valid() }

func (c pngCodec) Encode(w io.Writer, g *Grid) error {
	if g.Width == 0 || g.Height == 0 {
		return &FormatError{Codec: c.Name(), Err: errEmptyImage}
	}
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return formatError(c.Name(), enc.Encode(w, g.Image()))
}

func (c pngCodec) Decode(r io.Reader) (*Grid, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, formatError(c.Name(), err)
	}
	return GridFromImage(img), nil
}

// tiffCodec writes deflate-compressed RGBA strips. Alpha is always opaque.
type tiffCodec struct{}

func (tiffCodec) Name() string              { return "tiff" }
func (tiffCodec) Extensions() []string      { return []string{".tif", ".tiff"} }
func (tiffCodec) Supports(depth Depth) bool { return depth.Valid() }

func (c tiffCodec) Encode(w io.Writer, g *Grid) error {
	if g.Width == 0 || g.Height == 0 {
		return &FormatError{Codec: c.Name(), Err: errEmptyImage}
	}
	opt := &tiff.Options{Compression: tiff.Deflate}
	return formatError(c.Name(), tiff.Encode(w, g.Image(), opt))
}

func (c tiffCodec) Decode(r io.Reader) (*Grid, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, formatError(c.Name(), err)
	}
	return GridFromImage(img), nil
}

// bmpCodec writes 24-bit BMP, so it only holds depth 8 grids.
type bmpCodec struct{}

func (bmpCodec) Name() string              { return "bmp" }
func (bmpCodec) Extensions() []string      { return []string{".bmp"} }
func (bmpCodec) Supports(depth Depth) bool { return depth == Depth8 }

func (c bmpCodec) Encode(w io.Writer, g *Grid) error {
	return formatError(c.Name(), bmp.Encode(w, g.Image()))
}

func (c bmpCodec) Decode(r io.Reader) (*Grid, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, formatError(c.Name(), err)
	}
	return GridFromImage(img), nil
}

type f2iCodec struct{}

func (f2iCodec) Name() string              { return "f2i" }
func (f2iCodec) Extensions() []string      { return []string{".f2i"} }
func (f2iCodec) Supports(depth Depth) bool { return depth.Valid() }

func (c f2iCodec) Encode(w io.Writer, g *Grid) error {
	return formatError(c.Name(), EncodeContainer(w, g))
}

func (c f2iCodec) Decode(r io.Reader) (*Grid, error) {
	g, err := DecodeContainer(r)
	if err != nil {
		return nil, formatError(c.Name(), err)
	}
	return g, nil
}
