package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

type Logger interface {
	Error(v ...any)
	Errorf(format string, v ...any)
	Info(v ...any)
	Infof(format string, v ...any)
	Debugf(format string, v ...any)
}

type EscapeSequences struct {
	Reset []byte

	Bold []byte

	Red   []byte
	Green []byte
}

var (
	NoEscapeSequences    = EscapeSequences{}
	VT100EscapeSequences = EscapeSequences{
		Reset: []byte("\x1b[m"),

		Bold: []byte("\x1b[1m"),

		Red:   []byte("\x1b[31m"),
		Green: []byte("\x1b[32m"),
	}
)

// ColorMode selects whether log lines carry escape sequences.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorYes  ColorMode = "yes"
	ColorNo   ColorMode = "no"
)

func (m *ColorMode) String() string { return string(*m) }

func (m *ColorMode) Set(s string) error {
	switch ColorMode(s) {
	case ColorAuto, ColorYes, ColorNo:
		*m = ColorMode(s)
		return nil
	}
	return fmt.Errorf("invalid color mode %q, want auto, yes or no", s)
}

// NewLogger returns a console logger on stderr.
func NewLogger(mode ColorMode, verbose bool) Logger {
	return newLoggerFor(os.Stderr, mode, verbose)
}

func newLoggerFor(w *os.File, mode ColorMode, verbose bool) Logger {
	escapeSequences := &NoEscapeSequences
	switch mode {
	case ColorYes:
		escapeSequences = &VT100EscapeSequences
	case ColorAuto:
		if term.IsTerminal(int(w.Fd())) {
			escapeSequences = &VT100EscapeSequences
		}
	}
	return NewConsoleLogger(w, escapeSequences, verbose)
}

type consoleLogger struct {
	w               io.Writer
	escapeSequences *EscapeSequences
	verbose         bool
}

func NewConsoleLogger(w io.Writer, escapeSequences *EscapeSequences, verbose bool) Logger {
	return &consoleLogger{
		w:               w,
		escapeSequences: escapeSequences,
		verbose:         verbose,
	}
}

func (l *consoleLogger) Error(v ...any) {
	var b bytes.Buffer

	b.Write(l.escapeSequences.Bold)
	b.Write(l.escapeSequences.Red)
	b.WriteString("ERROR: ")
	b.Write(l.escapeSequences.Reset)
	fmt.Fprint(&b, v...)
	b.Write([]byte{'\n'})

	l.w.Write(b.Bytes())
}

func (l *consoleLogger) Errorf(format string, v ...any) {
	l.Error(fmt.Sprintf(format, v...))
}

func (l *consoleLogger) Info(v ...any) {
	var b bytes.Buffer

	b.Write(l.escapeSequences.Green)
	b.WriteString("INFO: ")
	b.Write(l.escapeSequences.Reset)
	fmt.Fprint(&b, v...)
	b.Write([]byte{'\n'})

	l.w.Write(b.Bytes())
}

func (l *consoleLogger) Infof(format string, v ...any) {
	l.Info(fmt.Sprintf(format, v...))
}

// Debugf logs like Infof, only in verbose mode.
func (l *consoleLogger) Debugf(format string, v ...any) {
	if l.verbose {
		l.Info(fmt.Sprintf(format, v...))
	}
}
