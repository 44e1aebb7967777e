// core/agp/splice.go
package agp

import "fmt"

// Splice inserts fragment into target right after the first record matching
// anchor. The anchor record stays in the head. Later matches of anchor have no
// effect. When anchor never matches, fragment is appended at the end; callers
// that care can check AnchorFound first.
func Splice(target Table, anchor string, fragment Table) (Table, error) {
	var head, tail Table
	active := true
	for _, r := range target {
		if active {
			head = append(head, r)
		} else {
			tail = append(tail, r)
		}
		if r.Matches(anchor) {
			active = false
		}
	}
	out := Concat(head, fragment, tail)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: after %s", ErrEmptySplice, anchor)
	}
	return out, nil
}

// AnchorFound reports whether any record of t matches anchor.
func AnchorFound(t Table, anchor string) bool {
	for _, r := range t {
		if r.Matches(anchor) {
			return true
		}
	}
	return false
}
