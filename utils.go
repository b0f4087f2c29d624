package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(maxContainerPayload),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

func compressZstd(data []byte) []byte {
	if len(data) == 0 {
		return data
	}

	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	zstdEncPool.Put(enc)
	return out
}

func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	zstdDecPool.Put(dec)
	return out, err
}

func writeU32BE(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

// WriteHeader writes the F2I header: magic, width(uint32), height(uint32),
// depth(uint8).
func WriteHeader(b *bytes.Buffer, w, h int, depth Depth) {
	b.WriteString(magicF2I)
	writeU32BE(b, uint32(w))
	writeU32BE(b, uint32(h))
	b.WriteByte(byte(depth))
}

func ReadHeader(r io.Reader) (w, h int, depth Depth, err error) {
	var hdr [f2iHeaderLen]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}
	if string(hdr[:len(magicF2I)]) != magicF2I {
		return 0, 0, 0, ErrInvalidMagic
	}
	pos := len(magicF2I)
	w32 := binary.BigEndian.Uint32(hdr[pos : pos+4])
	h32 := binary.BigEndian.Uint32(hdr[pos+4 : pos+8])
	depth = Depth(hdr[pos+8])
	if !depth.Valid() {
		return 0, 0, 0, ErrUnsupportedDepth
	}
	if uint64(w32)*uint64(h32) > maxContainerPixels {
		return 0, 0, 0, errImageTooLarge
	}
	return int(w32), int(h32), depth, nil
}

// writeFileAtomic writes data to path through a temporary file in the same
// directory, so path is either fully written or left untouched. A path of
// "-" writes stdout.
func writeFileAtomic(path string, data []byte) error {
	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return &IOError{Op: "write", Path: "stdout", Err: err}
		}
		return nil
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
