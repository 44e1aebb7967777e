// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"agpsplice/pkg/api"
)

// WriteChecksText prints one aligned line per check row.
func WriteChecksText(w io.Writer, rows []api.CheckV1, header bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if header {
		if _, err := fmt.Fprintln(tw, CheckHeader); err != nil {
			return err
		}
	}
	for _, r := range rows {
		combined, records := r.Combined, "-"
		if combined == "" {
			combined = "-"
		}
		if r.Status == api.CheckOK {
			records = fmt.Sprint(r.Records)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Part, r.Status, combined, records); err != nil {
			return err
		}
	}
	return tw.Flush()
}
