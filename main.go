package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const usage = `Encode: file2image [-v] [-color auto|yes|no] encode [-depth 8|16] [-format png|tiff|bmp|f2i] [-mask <image>] <input> <output-image>
Decode: file2image [-v] [-color auto|yes|no] decode [-format png|tiff|bmp|f2i] <input-image> <output>
A path of "-" reads stdin or writes stdout.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("file2image", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	verbose := global.Bool("v", false, "log codec and bit depth details")
	colorMode := ColorAuto
	global.Var(&colorMode, "color", "colour log output: auto, yes or no")
	if err := global.Parse(args); err != nil {
		return 2
	}
	log := NewLogger(colorMode, *verbose)

	if global.NArg() < 1 {
		global.Usage()
		return 2
	}
	cmd, rest := global.Arg(0), global.Args()[1:]

	switch cmd {
	case "encode":
		return runEncode(log, rest)
	case "decode":
		return runDecode(log, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}
}

func runEncode(log Logger, args []string) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	depthFlag := fs.String("depth", "16", "bits per channel sample: 8 or 16")
	format := fs.String("format", "", "output image format; inferred from the output extension when empty")
	mask := fs.String("mask", "", "image whose dimensions bound the output grid")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	depth, err := ParseDepth(*depthFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "depth must be 8 or 16")
		return 2
	}

	inPath, outPath := fs.Arg(0), fs.Arg(1)
	opts := EncodeOptions{Depth: depth, Format: *format}

	var res *EncodeResult
	if *mask != "" {
		res, err = EncodeFileWithMask(inPath, outPath, *mask, opts)
	} else {
		res, err = EncodeFile(inPath, outPath, opts)
	}
	if err != nil {
		log.Errorf("encode error: %v", err)
		return 1
	}

	log.Debugf("Codec %s, bit depth is %d", res.Codec, res.Depth)
	log.Infof("Encoded %s (%d bytes) → %s (%s, depth %d)", inPath, res.Length, outPath, res.Dims, res.Depth)
	return 0
}

func runDecode(log Logger, args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	format := fs.String("format", "", "input image format; sniffed from the file when empty")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	inPath, outPath := fs.Arg(0), fs.Arg(1)
	if outPath == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		log.Error("decode error: refusing to write binary output to a terminal")
		return 1
	}

	res, err := DecodeFile(inPath, outPath, *format)
	if err != nil {
		log.Errorf("decode error: %v", err)
		return 1
	}

	log.Debugf("Codec %s, bit depth is %d", res.Codec, res.Depth)
	log.Infof("Decoded %s (%s) → %s (%d bytes)", inPath, res.Dims, outPath, res.Length)
	return 0
}

type EncodeOptions struct {
	// Depth of each channel sample; zero means Depth16.
	Depth Depth
	// Format names the output codec. Empty selects it by output extension.
	Format string
}

type EncodeResult struct {
	Codec  string
	Dims   Dims
	Depth  Depth
	Length int
}

// EncodeFile stores the bytes of inPath in the smallest square image that
// holds them.
func EncodeFile(inPath, outPath string, opts EncodeOptions) (*EncodeResult, error) {
	return encodeFile(inPath, outPath, nil, opts)
}

// EncodeFileWithMask stores the bytes of inPath in an image the size of the
// image at maskPath. If the mask is too small a *CapacityError is returned
// and outPath is not created.
func EncodeFileWithMask(inPath, outPath, maskPath string, opts EncodeOptions) (*EncodeResult, error) {
	mask, err := readMaskDims(maskPath)
	if err != nil {
		return nil, err
	}
	return encodeFile(inPath, outPath, &mask, opts)
}

func encodeFile(inPath, outPath string, mask *Dims, opts EncodeOptions) (*EncodeResult, error) {
	depth := opts.Depth
	if depth == 0 {
		depth = Depth16
	}
	c, err := selectCodec(opts.Format, outPath)
	if err != nil {
		return nil, err
	}
	if !c.Supports(depth) {
		return nil, fmt.Errorf("%s: %w: %d", c.Name(), ErrUnsupportedDepth, depth)
	}

	src, err := OpenByteSource(inPath)
	if err != nil {
		return nil, err
	}

	var g *Grid
	if mask != nil {
		g, err = SerializeMask(src, *mask, depth)
		if err != nil {
			return nil, err
		}
	} else {
		g = SerializeSquare(src, depth)
	}

	data, err := EncodeGrid(c, g)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(outPath, data); err != nil {
		return nil, err
	}
	return &EncodeResult{Codec: c.Name(), Dims: g.Dims(), Depth: depth, Length: src.Len()}, nil
}

func readMaskDims(maskPath string) (Dims, error) {
	f, err := os.Open(maskPath)
	if err != nil {
		return Dims{}, &IOError{Op: "open", Path: maskPath, Err: err}
	}
	defer f.Close()

	dims, _, err := DecodeDims(f)
	if err != nil {
		return Dims{}, fmt.Errorf("mask %s: %w", maskPath, err)
	}
	return dims, nil
}

type DecodeResult struct {
	Codec  string
	Dims   Dims
	Depth  Depth
	Length int
}

// DecodeFile writes the bytes stored in the image at inPath to outPath. The
// output is always Width*Height*3 bytes; trailing padding is kept.
func DecodeFile(inPath, outPath, format string) (*DecodeResult, error) {
	g, name, err := readGrid(inPath, format)
	if err != nil {
		return nil, err
	}

	data := DeserializeBytes(g)
	if err := writeFileAtomic(outPath, data); err != nil {
		return nil, err
	}
	return &DecodeResult{Codec: name, Dims: g.Dims(), Depth: g.Depth, Length: len(data)}, nil
}

func readGrid(inPath, format string) (*Grid, string, error) {
	var r io.Reader = os.Stdin
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, "", &IOError{Op: "open", Path: inPath, Err: err}
		}
		defer f.Close()
		r = f
	}

	if format == "" {
		return DecodeGrid(r)
	}
	c, err := CodecByName(format)
	if err != nil {
		return nil, "", err
	}
	g, err := c.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return g, c.Name(), nil
}

func selectCodec(format, outPath string) (Codec, error) {
	if format != "" {
		return CodecByName(format)
	}
	if outPath == "-" {
		return nil, errors.New("-format is required when writing to stdout")
	}
	return CodecForPath(outPath)
}
