package main

import (
	"io"
	"os"
)

// ByteSource is a finite byte sequence with a known total length and a read
// cursor. It is consumed once, front to back.
type ByteSource struct {
	data []byte
	pos  int
}

func NewByteSource(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

// ReadByteSource materializes r into a ByteSource.
func ReadByteSource(r io.Reader) (*ByteSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewByteSource(data), nil
}

// OpenByteSource reads the whole file at path. A path of "-" reads stdin.
// The file is closed before OpenByteSource returns, on every path.
func OpenByteSource(path string) (*ByteSource, error) {
	if path == "-" {
		src, err := ReadByteSource(os.Stdin)
		if err != nil {
			return nil, &IOError{Op: "read", Path: "stdin", Err: err}
		}
		return src, nil
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer in.Close()

	src, err := ReadByteSource(in)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return src, nil
}

// Len returns the total length of the source, independent of the cursor.
func (s *ByteSource) Len() int { return len(s.data) }

// Pos returns the cursor position.
func (s *ByteSource) Pos() int { return s.pos }

func (s *ByteSource) Remaining() int { return len(s.data) - s.pos }

// ReadByte returns the next byte, or io.EOF once the cursor reaches Len.
func (s *ByteSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *ByteSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}
