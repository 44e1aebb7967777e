// core/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
)

// readCloser closes every closer, innermost first.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var err error
	for _, c := range rc.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader over path; "-" is stdin. Gzip is recognised by its
// magic number (1F 8B), so compressed stdin works as well.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return Wrap(os.Stdin, nil)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return Wrap(fh, fh)
}

// Wrap buffers r, inflating it when it is gzip. c, if non-nil, is closed with
// the returned reader.
func Wrap(r io.Reader, c io.Closer) (io.ReadCloser, error) {
	var closers []io.Closer
	if c != nil {
		closers = append(closers, c)
	}
	br := bufio.NewReaderSize(r, 64<<10)
	sig, _ := br.Peek(2)
	if len(sig) < 2 || sig[0] != 0x1f || sig[1] != 0x8b {
		return readCloser{Reader: br, closers: closers}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = readCloser{closers: closers}.Close()
		return nil, err
	}
	return readCloser{Reader: gr, closers: append([]io.Closer{gr}, closers...)}, nil
}
