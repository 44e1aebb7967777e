// core/ident/ident.go
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"agpsplice-core/agp"
)

var ErrNoIdentifiers = errors.New("no identifiers")

// Pattern is the shape of a unitig identifier in column 6.
var Pattern = regexp.MustCompile(`^utg[0-9]+l$`)

// Set is a sorted, duplicate-free list of identifiers.
type Set []string

func (s Set) Has(id string) bool {
	i := sort.SearchStrings(s, id)
	return i < len(s) && s[i] == id
}

// Derive collects the distinct column-6 values of t that look like unitig ids.
// The result does not depend on record order.
func Derive(t agp.Table) (Set, error) {
	seen := make(map[string]struct{})
	for _, r := range t {
		id := r.ComponentID()
		if Pattern.MatchString(id) {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: %d records scanned", ErrNoIdentifiers, len(t))
	}
	out := make(Set, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Report is the outcome of comparing the identifier count with the number of
// sequences the lookup returned.
type Report struct {
	Identifiers int
	Sequences   int
	// Missing holds archive names that are not in the identifier set.
	Missing []string
	// Unmatched holds identifiers the lookup did not return. Only filled when
	// the returned names are known.
	Unmatched []string
}

func (r Report) Clean() bool { return r.Identifiers == r.Sequences }

// Reconcile compares counts. On a mismatch Missing is archiveNames minus ids,
// kept in archive order, and Unmatched is ids minus returned.
func Reconcile(ids Set, sequences int, archiveNames, returned []string) Report {
	rep := Report{Identifiers: len(ids), Sequences: sequences}
	if rep.Clean() {
		return rep
	}
	for _, n := range archiveNames {
		if !ids.Has(n) {
			rep.Missing = append(rep.Missing, n)
		}
	}
	if returned != nil {
		got := make(map[string]struct{}, len(returned))
		for _, n := range returned {
			got[n] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := got[id]; !ok {
				rep.Unmatched = append(rep.Unmatched, id)
			}
		}
	}
	return rep
}
