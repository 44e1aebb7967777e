// core/fasta/stream.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA entry. Header is the full definition line without '>';
// ID is its first whitespace-delimited token.
type Record struct {
	ID     string
	Header string
	Seq    []byte
}

// Scan parses FASTA from r and calls emit once per record. It returns promptly
// when ctx is done, and stops at the first error emit returns.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		cur  Record
		have bool
		seq  = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if !have {
			return nil
		}
		cur.Seq = append([]byte(nil), seq...)
		return emit(cur)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			hdr := string(bytes.TrimSpace(line[1:]))
			cur = Record{ID: parseHeaderID(line[1:]), Header: hdr}
			have = true
			seq = seq[:0]
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ScanPath opens path (see Open) and scans it.
func ScanPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Scan(ctx, rc, emit)
}

// Names returns the ID of every record in path, in file order.
func Names(ctx context.Context, path string) ([]string, error) {
	var out []string
	err := ScanPath(ctx, path, func(r Record) error {
		out = append(out, r.ID)
		return nil
	})
	return out, err
}

// Count returns the number of header lines in r.
func Count(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	n := 0
	for sc.Scan() {
		if b := sc.Bytes(); len(b) > 0 && b[0] == '>' {
			n++
		}
	}
	return n, sc.Err()
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
