package main

// Serialize lays src out into a new dims-sized grid, three bytes per pixel
// in row-major order. Once src runs dry, the rest of the current pixel and
// every later pixel stay zero; src is not read again.
func Serialize(src *ByteSource, dims Dims, depth Depth) *Grid {
	g := NewGrid(dims.Width, dims.Height, depth)

	exhausted := false
	for y := 0; y < g.Height && !exhausted; y++ {
		for x := 0; x < g.Width && !exhausted; x++ {
			var p Pixel
			p, exhausted = nextPixel(src, depth)
			g.SetPixel(x, y, p)
		}
	}
	return g
}

// nextPixel reads up to three channel bytes. done reports that src ran out
// before the pixel was complete, or exactly at its end.
func nextPixel(src *ByteSource, depth Depth) (p Pixel, done bool) {
	var rgb [channels]uint16
	for i := range rgb {
		b, err := src.ReadByte()
		if err != nil {
			return Pixel{R: rgb[0], G: rgb[1], B: rgb[2]}, true
		}
		rgb[i] = depth.Scale(b)
	}
	return Pixel{R: rgb[0], G: rgb[1], B: rgb[2]}, src.Remaining() == 0
}

// SerializeSquare serializes src into the smallest square grid that holds it.
func SerializeSquare(src *ByteSource, depth Depth) *Grid {
	return Serialize(src, SquareDims(src.Len()), depth)
}

// SerializeMask serializes src into a grid the size of mask. It fails with a
// *CapacityError before allocating anything if src does not fit.
func SerializeMask(src *ByteSource, mask Dims, depth Depth) (*Grid, error) {
	dims, err := MaskDims(mask, src.Len())
	if err != nil {
		return nil, err
	}
	return Serialize(src, dims, depth), nil
}
