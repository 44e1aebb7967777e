// core/fasta/write.go
package fasta

import (
	"bufio"
	"io"
)

// LineWidth is the sequence wrap width used by Writer.
const LineWidth = 60

// Writer emits FASTA records wrapped at LineWidth.
type Writer struct {
	bw *bufio.Writer
	n  int
}

func NewWriter(w io.Writer) *Writer { return &Writer{bw: bufio.NewWriter(w)} }

func (w *Writer) Write(r Record) error {
	hdr := r.Header
	if hdr == "" {
		hdr = r.ID
	}
	if err := w.bw.WriteByte('>'); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(hdr); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	for off := 0; off < len(r.Seq); off += LineWidth {
		end := off + LineWidth
		if end > len(r.Seq) {
			end = len(r.Seq)
		}
		if _, err := w.bw.Write(r.Seq[off:end]); err != nil {
			return err
		}
		if err := w.bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	w.n++
	return nil
}

// Count is the number of records written so far.
func (w *Writer) Count() int { return w.n }

func (w *Writer) Flush() error { return w.bw.Flush() }
