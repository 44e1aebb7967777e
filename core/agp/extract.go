// core/agp/extract.go
package agp

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExtraction = errors.New("empty extraction")
	ErrEmptySplice     = errors.New("empty splice")
	ErrMarkerNotFound  = errors.New("marker not found")
)

type scanState int

const (
	searching scanState = iota
	collecting
)

// Extract returns the inclusive run of records from the first record matching
// start up to the first later-or-same record matching end. If start never
// matches, or end never matches once collecting, the result is empty and
// ErrEmptyExtraction is returned.
func Extract(t Table, start, end string) (Table, error) {
	var (
		state = searching
		out   Table
	)
	for _, r := range t {
		if state == searching {
			if !r.Matches(start) {
				continue
			}
			state = collecting
		}
		out = append(out, r)
		if r.Matches(end) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s..%s", ErrEmptyExtraction, start, end)
}

// Select returns every record matching marker, in table order.
func Select(t Table, marker string) (Table, error) {
	var out Table
	for _, r := range t {
		if r.Matches(marker) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyExtraction, marker)
	}
	return out, nil
}

// Searcher is anything the marker check can look into: a Table or a Source.
type Searcher interface {
	Contains(marker string) bool
}

// RequireMarkers checks that every non-empty marker occurs somewhere in t.
func RequireMarkers(t Searcher, markers ...string) error {
	for _, m := range markers {
		if m == "" {
			continue
		}
		if !t.Contains(m) {
			return fmt.Errorf("%w: %s", ErrMarkerNotFound, m)
		}
	}
	return nil
}
