// F2I is a minimal lossless container for grids: a fixed header followed by
// a single zstd frame holding every sample in row-major order, big endian
// when the depth is 16. Unlike PNG it can hold a 0x0 grid.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

const (
	magicF2I = "F2I\n"

	// magic + width(uint32) + height(uint32) + depth(uint8)
	f2iHeaderLen = len(magicF2I) + 4 + 4 + 1

	maxContainerPixels  = 1 << 28
	maxContainerPayload = maxContainerPixels * channels * 2
)

var errImageTooLarge = errors.New("f2i: image dimensions exceed limit")

func init() {
	image.RegisterFormat("f2i", magicF2I, decodeContainerImage, decodeContainerConfig)
}

// EncodeContainer writes g to w in F2I form.
func EncodeContainer(w io.Writer, g *Grid) error {
	var b bytes.Buffer
	WriteHeader(&b, g.Width, g.Height, g.Depth)

	bps := int(g.Depth) / 8
	raw := make([]byte, 0, len(g.Pix)*channels*bps)
	for _, p := range g.Pix {
		if g.Depth == Depth8 {
			raw = append(raw, uint8(p.R), uint8(p.G), uint8(p.B))
			continue
		}
		raw = append(raw,
			uint8(p.R>>8), uint8(p.R),
			uint8(p.G>>8), uint8(p.G),
			uint8(p.B>>8), uint8(p.B),
		)
	}
	b.Write(compressZstd(raw))

	_, err := w.Write(b.Bytes())
	return err
}

// DecodeContainer reads an F2I stream produced by EncodeContainer.
func DecodeContainer(r io.Reader) (*Grid, error) {
	w, h, depth, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	comp, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err := decompressZstd(comp)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}

	bps := int(depth) / 8
	if want := w * h * channels * bps; len(raw) != want {
		return nil, fmt.Errorf("f2i: payload is %d bytes, want %d for %dx%d at depth %d",
			len(raw), want, w, h, depth)
	}

	g := NewGrid(w, h, depth)
	for i := range g.Pix {
		if depth == Depth8 {
			s := raw[i*3 : i*3+3 : i*3+3]
			g.Pix[i] = Pixel{R: uint16(s[0]), G: uint16(s[1]), B: uint16(s[2])}
			continue
		}
		s := raw[i*6 : i*6+6 : i*6+6]
		g.Pix[i] = Pixel{
			R: uint16(s[0])<<8 | uint16(s[1]),
			G: uint16(s[2])<<8 | uint16(s[3]),
			B: uint16(s[4])<<8 | uint16(s[5]),
		}
	}
	return g, nil
}

func decodeContainerImage(r io.Reader) (image.Image, error) {
	g, err := DecodeContainer(r)
	if err != nil {
		return nil, err
	}
	return g.Image(), nil
}

func decodeContainerConfig(r io.Reader) (image.Config, error) {
	w, h, depth, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.RGBA64Model
	if depth == Depth8 {
		model = color.RGBAModel
	}
	return image.Config{ColorModel: model, Width: w, Height: h}, nil
}
