package main

import (
	"bufio"
	"io"
	"iter"
)

// Deserialize yields the most significant byte of every channel of g, red,
// green then blue, walking pixels in row-major order. The sequence is
// exactly Width*Height*3 bytes long; padding is not stripped.
func Deserialize(g *Grid) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				p := g.PixelAt(x, y)
				if !yield(g.Depth.MSB(p.R)) ||
					!yield(g.Depth.MSB(p.G)) ||
					!yield(g.Depth.MSB(p.B)) {
					return
				}
			}
		}
	}
}

// DeserializeBytes collects Deserialize(g) into a slice.
func DeserializeBytes(g *Grid) []byte {
	out := make([]byte, 0, g.Dims().Capacity())
	for b := range Deserialize(g) {
		out = append(out, b)
	}
	return out
}

// WriteGrid streams Deserialize(g) to w and returns the number of bytes
// written.
func WriteGrid(w io.Writer, g *Grid) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for b := range Deserialize(g) {
		if err := bw.WriteByte(b); err != nil {
			return n, err
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, nil
}
