// Package jioio provides positional read/write helpers that loop until the
// requested byte count is satisfied, EOF is reached, or an error occurs —
// the Go equivalent of libjio's spread()/spwrite().
package jioio

import (
	"errors"
	"io"
	"os"
)

// Spread reads exactly len(buf) bytes from f starting at offset, looping
// over short reads. If EOF is reached before buf is filled, it returns the
// number of bytes actually read and a nil error — callers distinguish a
// short read (file shorter than requested) from a real I/O error by
// checking the returned count against len(buf).
func Spread(f *os.File, buf []byte, offset int64) (int, error) {
	n := 0
	for n < len(buf) {
		rv, err := f.ReadAt(buf[n:], offset+int64(n))
		n += rv
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
	}
	return n, nil
}

// Spwrite writes exactly len(buf) bytes to f at offset, looping over short
// writes. Any error aborts immediately and is propagated to the caller.
func Spwrite(f *os.File, buf []byte, offset int64) (int, error) {
	n := 0
	for n < len(buf) {
		rv, err := f.WriteAt(buf[n:], offset+int64(n))
		n += rv
		if err != nil {
			return n, err
		}
		if rv == 0 {
			break
		}
	}
	return n, nil
}
