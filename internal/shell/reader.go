package shell

import (
	"bufio"
	"io"
)

// ScanReader is a LineReader over a plain stream, for non-terminal input.
// The shell prints its prompt to the output writer before each read.
type ScanReader struct {
	scanner *bufio.Scanner
}

// NewScanReader reads lines from in.
func NewScanReader(in io.Reader) *ScanReader {
	return &ScanReader{scanner: bufio.NewScanner(in)}
}

// ReadLine returns the next line, or io.EOF.
func (r *ScanReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}
