package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/crowdsecurity/debugstream/pkg/tailer"
)

// display renders signals: log content goes to out untouched, notices
// about the file itself go to notices.
type display struct {
	out     io.Writer
	notices io.Writer
	warn    *color.Color
	gone    *color.Color
}

func newDisplay(out io.Writer, notices io.Writer, colorize bool) *display {
	d := &display{
		out:     out,
		notices: notices,
		warn:    color.New(color.FgYellow, color.Bold),
		gone:    color.New(color.FgRed, color.Bold),
	}

	for _, c := range []*color.Color{d.warn, d.gone} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return d
}

func (d *display) render(sig tailer.Signal) error {
	var err error

	switch sig.Kind {
	case tailer.Appended:
		_, err = d.out.Write(sig.Bytes)
	case tailer.Truncated:
		_, err = d.warn.Fprintf(d.notices, "--- %s truncated ---\n", sig.Path)
	case tailer.FileGone:
		_, err = d.gone.Fprintf(d.notices, "--- %s removed ---\n", sig.Path)
	}

	if err != nil {
		return fmt.Errorf("while rendering %s signal: %w", sig.Kind, err)
	}

	return nil
}

// dump copies the current content of path to out and returns how many
// bytes were written, the offset to resume tailing from.
func (d *display) dump(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	n, err := io.CopyN(d.out, f, fi.Size())
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("while reading %s: %w", path, err)
	}

	return n, nil
}
