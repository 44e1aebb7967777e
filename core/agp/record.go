// core/agp/record.go
package agp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MinFields is the smallest number of tab-delimited columns a component line may carry.
const MinFields = 6

// Record is one component line of an AGP table. Fields are kept verbatim so
// that offsets and orientation pass through untouched.
type Record struct {
	Fields []string
}

// PrimaryID is column 1 (the object / scaffold name).
func (r Record) PrimaryID() string { return r.field(0) }

// ComponentID is column 6 (the component or gap type).
func (r Record) ComponentID() string { return r.field(5) }

func (r Record) field(i int) string {
	if i < len(r.Fields) {
		return r.Fields[i]
	}
	return ""
}

// Matches reports whether marker equals the primary or the component id.
func (r Record) Matches(marker string) bool {
	return r.PrimaryID() == marker || r.ComponentID() == marker
}

// String renders the record as its original tab-joined line.
func (r Record) String() string { return strings.Join(r.Fields, "\t") }

// Table is an ordered run of records. Operations only slice, filter, or
// concatenate it; record order is never changed.
type Table []Record

// Contains reports whether marker occurs anywhere in any line of the table.
func (t Table) Contains(marker string) bool {
	if marker == "" {
		return false
	}
	for _, r := range t {
		if strings.Contains(r.String(), marker) {
			return true
		}
	}
	return false
}

// Column returns the given 0-based column of every record, in order.
func (t Table) Column(i int) []string {
	out := make([]string, 0, len(t))
	for _, r := range t {
		out = append(out, r.field(i))
	}
	return out
}

// Concat joins tables in argument order into a fresh table.
func Concat(parts ...Table) Table {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Table, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Source is a parsed table plus the '#' lines Read skipped. The marker
// check searches both, like grep over the raw file.
type Source struct {
	Table    Table
	Comments []string
}

// Contains reports whether marker occurs in any record or comment line.
func (s Source) Contains(marker string) bool {
	if s.Table.Contains(marker) {
		return true
	}
	if marker == "" {
		return false
	}
	for _, c := range s.Comments {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}

// Read parses a tab-delimited component table. Blank lines and lines starting
// with '#' are skipped; any other line needs at least MinFields columns.
func Read(r io.Reader, name string) (Table, error) {
	src, err := ReadSource(r, name)
	return src.Table, err
}

// ReadSource is Read that also keeps the comment lines.
func ReadSource(r io.Reader, name string) (Source, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var src Source
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == '#' {
			src.Comments = append(src.Comments, line)
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < MinFields {
			return Source{}, fmt.Errorf("%s:%d bad field count (%d < %d)", name, ln, len(f), MinFields)
		}
		src.Table = append(src.Table, Record{Fields: f})
	}
	if err := sc.Err(); err != nil {
		return Source{}, fmt.Errorf("%s: %w", name, err)
	}
	return src, nil
}

// Load opens path and reads it as a component table.
func Load(path string) (Table, error) {
	src, err := LoadSource(path)
	return src.Table, err
}

// LoadSource opens path and reads it with ReadSource.
func LoadSource(path string) (Source, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Source{}, err
	}
	defer func() { _ = fh.Close() }()
	return ReadSource(fh, path)
}

// Write emits the table one line per record.
func Write(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	for _, r := range t {
		if _, err := bw.WriteString(r.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteColumn emits a single column, one value per line.
func WriteColumn(w io.Writer, values []string) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		if _, err := fmt.Fprintln(bw, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
