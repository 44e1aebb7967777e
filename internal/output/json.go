// internal/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"agpsplice/pkg/api"
)

func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteChecksJSON writes the check rows as one indented JSON array.
func WriteChecksJSON(w io.Writer, rows []api.CheckV1) error {
	if rows == nil {
		rows = []api.CheckV1{}
	}
	return encodePretty(w, rows)
}

// WriteSummaryFile writes s to fn through a temporary file in the same
// directory, so readers never see a partial summary.
func WriteSummaryFile(fn string, s api.SummaryV1) error {
	if s.Parts == nil {
		s.Parts = []api.PartV1{}
	}
	tmp, err := os.CreateTemp(filepath.Dir(fn), ".summary-*.json")
	if err != nil {
		return err
	}
	if err := encodePretty(tmp, s); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", fn, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fn)
}
