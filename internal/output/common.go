// Package output renders run summaries and check reports.
package output

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Formats for --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// CheckHeader is the header row of the text check report.
const CheckHeader = "part\tstatus\tcombined\trecords"

// ValidateFormat rejects anything but text and json.
func ValidateFormat(f string) error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid --format %q (text | json)", f)
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
