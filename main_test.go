package main

import (
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeMask(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "mask.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
	return path
}

// requireOnly fails unless dir holds exactly the named entries, so that
// leftover temporary files are caught too.
func requireOnly(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	require.ElementsMatch(t, names, got)
}

func TestEncodeDecodeFile(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	for _, tc := range []struct {
		out   string
		depth Depth
	}{
		{out: "out.png", depth: Depth16},
		{out: "out.png", depth: Depth8},
		{out: "out.tiff", depth: Depth16},
		{out: "out.bmp", depth: Depth8},
		{out: "out.f2i", depth: Depth16},
	} {
		t.Run(tc.out+"_"+tc.depth.String(), func(t *testing.T) {
			dir := t.TempDir()
			in := writeTestFile(t, dir, "in.bin", payload)
			img := filepath.Join(dir, tc.out)

			res, err := EncodeFile(in, img, EncodeOptions{Depth: tc.depth})
			require.NoError(t, err)
			require.Equal(t, Dims{Width: 2, Height: 2}, res.Dims)
			require.Equal(t, 5, res.Length)
			require.Equal(t, tc.depth, res.Depth)

			out := filepath.Join(dir, "out.bin")
			dres, err := DecodeFile(img, out, "")
			require.NoError(t, err)
			require.Equal(t, res.Codec, dres.Codec)
			require.Equal(t, tc.depth, dres.Depth)
			require.Equal(t, 12, dres.Length)

			got, err := os.ReadFile(out)
			require.NoError(t, err)
			require.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0, 0, 0, 0, 0}, got)
			requireOnly(t, dir, "in.bin", tc.out, "out.bin")
		})
	}
}

func TestEncodeFileLarge(t *testing.T) {
	dir := t.TempDir()
	payload := randomBytes(100_000, 7)
	in := writeTestFile(t, dir, "in.bin", payload)
	img := filepath.Join(dir, "out.png")

	res, err := EncodeFile(in, img, EncodeOptions{})
	require.NoError(t, err)
	require.Equal(t, Depth16, res.Depth)
	require.Equal(t, SquareDims(len(payload)), res.Dims)

	out := filepath.Join(dir, "out.bin")
	_, err = DecodeFile(img, out, "png")
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, got, res.Dims.Capacity())
	require.Equal(t, payload, got[:len(payload)])
	require.Equal(t, make([]byte, len(got)-len(payload)), got[len(payload):])
}

func TestEncodeFileTwiceIsIdentical(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "in.bin", randomBytes(4096, 3))

	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	_, err := EncodeFile(in, a, EncodeOptions{})
	require.NoError(t, err)
	_, err = EncodeFile(in, b, EncodeOptions{})
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestEncodeFileWithMask(t *testing.T) {
	t.Run("Fits", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1, 2, 3, 4, 5})
		mask := writeMask(t, dir, 4, 1)
		img := filepath.Join(dir, "out.png")

		res, err := EncodeFileWithMask(in, img, mask, EncodeOptions{Depth: Depth8})
		require.NoError(t, err)
		require.Equal(t, Dims{Width: 4, Height: 1}, res.Dims)

		out := filepath.Join(dir, "out.bin")
		_, err = DecodeFile(img, out, "")
		require.NoError(t, err)
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0, 0, 0, 0, 0}, got)
	})

	t.Run("TooSmall", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1, 2, 3, 4, 5})
		mask := writeMask(t, dir, 1, 1)
		img := filepath.Join(dir, "out.png")

		_, err := EncodeFileWithMask(in, img, mask, EncodeOptions{})
		require.ErrorIs(t, err, ErrCapacity)
		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		require.Equal(t, 5, capErr.Length)

		_, err = os.Stat(img)
		require.ErrorIs(t, err, fs.ErrNotExist)
		requireOnly(t, dir, "in.bin", "mask.png")
	})

	t.Run("ExistingOutputUntouched", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", make([]byte, 100))
		mask := writeMask(t, dir, 2, 2)
		img := writeTestFile(t, dir, "out.png", []byte("previous"))

		_, err := EncodeFileWithMask(in, img, mask, EncodeOptions{})
		require.ErrorIs(t, err, ErrCapacity)

		got, err := os.ReadFile(img)
		require.NoError(t, err)
		require.Equal(t, []byte("previous"), got)
	})

	t.Run("MaskNotAnImage", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})
		mask := writeTestFile(t, dir, "mask.png", []byte("not an image"))

		_, err := EncodeFileWithMask(in, filepath.Join(dir, "out.png"), mask, EncodeOptions{})
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("MaskMissing", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})

		_, err := EncodeFileWithMask(in, filepath.Join(dir, "out.png"), filepath.Join(dir, "nope.png"), EncodeOptions{})
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestEncodeFileEmptyInput(t *testing.T) {
	t.Run("PNGRejected", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", nil)

		_, err := EncodeFile(in, filepath.Join(dir, "out.png"), EncodeOptions{})
		require.ErrorIs(t, err, ErrFormat)
		requireOnly(t, dir, "in.bin")
	})

	t.Run("F2I", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", nil)
		img := filepath.Join(dir, "out.f2i")

		res, err := EncodeFile(in, img, EncodeOptions{})
		require.NoError(t, err)
		require.Equal(t, Dims{}, res.Dims)

		out := filepath.Join(dir, "out.bin")
		dres, err := DecodeFile(img, out, "")
		require.NoError(t, err)
		require.Equal(t, 0, dres.Length)
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestEncodeFileErrors(t *testing.T) {
	t.Run("MissingInput", func(t *testing.T) {
		dir := t.TempDir()
		_, err := EncodeFile(filepath.Join(dir, "nope"), filepath.Join(dir, "out.png"), EncodeOptions{})
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		require.Equal(t, "open", ioErr.Op)
		requireOnly(t, dir)
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})
		_, err := EncodeFile(in, filepath.Join(dir, "out.jpg"), EncodeOptions{})
		require.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("DepthNotSupportedByFormat", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})
		_, err := EncodeFile(in, filepath.Join(dir, "out.bmp"), EncodeOptions{Depth: Depth16})
		require.ErrorIs(t, err, ErrUnsupportedDepth)
		requireOnly(t, dir, "in.bin")
	})

	t.Run("OutputDirectoryMissing", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})
		_, err := EncodeFile(in, filepath.Join(dir, "missing", "out.png"), EncodeOptions{})
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		require.Equal(t, "create", ioErr.Op)
	})

	t.Run("StdoutNeedsFormat", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1})
		_, err := EncodeFile(in, "-", EncodeOptions{})
		require.EqualError(t, err, "-format is required when writing to stdout")
	})
}

func TestDecodeFileErrors(t *testing.T) {
	t.Run("NotAnImage", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.png", []byte("garbage"))
		_, err := DecodeFile(in, filepath.Join(dir, "out.bin"), "")
		require.ErrorIs(t, err, ErrFormat)
		requireOnly(t, dir, "in.png")
	})

	t.Run("WrongFormatFlag", func(t *testing.T) {
		dir := t.TempDir()
		in := writeTestFile(t, dir, "in.bin", []byte{1, 2, 3})
		img := filepath.Join(dir, "in.f2i")
		_, err := EncodeFile(in, img, EncodeOptions{})
		require.NoError(t, err)

		_, err = DecodeFile(img, filepath.Join(dir, "out.bin"), "png")
		require.ErrorIs(t, err, ErrFormat)
		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "png", fe.Codec)
	})

	t.Run("MissingInput", func(t *testing.T) {
		dir := t.TempDir()
		_, err := DecodeFile(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.bin"), "")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "in.bin", []byte("hello, world"))
	img := filepath.Join(dir, "out.tif")
	out := filepath.Join(dir, "out.bin")

	require.Equal(t, 0, run([]string{"-color", "no", "encode", "-depth", "8", in, img}))
	require.Equal(t, 0, run([]string{"-color=no", "-v", "decode", img, out}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []byte("hello, world"), got)

	mask := writeMask(t, dir, 1, 1)
	require.Equal(t, 1, run([]string{"-color", "no", "encode", "-mask", mask, in, filepath.Join(dir, "masked.png")}))
	_, err = os.Stat(filepath.Join(dir, "masked.png"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"-color", "maybe", "encode", in, img},
		{"encode", in},
		{"encode", "-depth", "12", in, img},
		{"decode", img},
	} {
		require.Equal(t, 2, run(args), "%q", args)
	}
}
