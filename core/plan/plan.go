// core/plan/plan.go
package plan

import (
	"errors"
	"fmt"
	"strings"
)

var ErrPlanValidation = errors.New("plan validation")

// Section keys of a plan.
const (
	KeyChrA         = "CHR_A"
	KeyStartFullA   = "START_UTG_FULL_A"
	KeyEndFullA     = "END_UTG_FULL_A"
	KeyStartA       = "START_UTG_A"
	KeyEndA         = "END_UTG_A"
	KeyInsertAfterB = "INSERT_AFTER_UTG_B"
	KeyChrB         = "CHR_B"
	KeyStartFullB   = "START_UTG_FULL_B"
	KeyEndFullB     = "END_UTG_FULL_B"
	KeyStartB       = "START_UTG_B"
	KeyEndB         = "END_UTG_B"
	KeyInsertAfterA = "INSERT_AFTER_UTG_A"
	KeyRefChr       = "REF_CHR"
	KeyRefUtg       = "REF_UTG"
)

// Range is an inclusive start..end marker pair.
type Range struct {
	Start string
	End   string
}

func (r Range) set() bool { return r.Start != "" && r.End != "" }

// Side is one chromosome of a plan.
type Side struct {
	Chr  string
	Full Range
	// Dup is the sub-range copied into the opposite chromosome.
	Dup Range
	// InsertAfter anchors the opposite side's duplicate into this side.
	InsertAfter string
}

// Plan is one configured edit unit (a "part").
type Plan struct {
	Name   string
	A, B   Side
	RefChr string
	RefUtg string
}

// Branches are the active edit paths of a plan.
type Branches struct {
	DupAtoB bool
	DupBtoA bool
	HasRef  bool
}

func (p Plan) Branches() Branches {
	return Branches{
		DupAtoB: p.A.Dup.set() && p.B.InsertAfter != "",
		DupBtoA: p.B.Dup.set() && p.A.InsertAfter != "",
		HasRef:  p.RefChr != "" && p.RefUtg != "",
	}
}

// FromSection builds and validates a plan from a config section. Keys are
// matched case-insensitively and values are trimmed.
func FromSection(name string, kv map[string]string) (Plan, error) {
	get := lookup(kv)
	p := Plan{
		Name: name,
		A: Side{
			Chr:         get(KeyChrA),
			Full:        Range{get(KeyStartFullA), get(KeyEndFullA)},
			Dup:         Range{get(KeyStartA), get(KeyEndA)},
			InsertAfter: get(KeyInsertAfterA),
		},
		B: Side{
			Chr:         get(KeyChrB),
			Full:        Range{get(KeyStartFullB), get(KeyEndFullB)},
			Dup:         Range{get(KeyStartB), get(KeyEndB)},
			InsertAfter: get(KeyInsertAfterB),
		},
		RefChr: get(KeyRefChr),
		RefUtg: get(KeyRefUtg),
	}
	return p, p.Validate()
}

func lookup(kv map[string]string) func(string) string {
	norm := make(map[string]string, len(kv))
	for k, v := range kv {
		norm[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return func(k string) string { return norm[k] }
}

// Validate reports ErrPlanValidation when required fields are missing or no
// duplication branch is active.
func (p Plan) Validate() error {
	if p.A.Chr == "" || p.B.Chr == "" || !p.A.Full.set() || !p.B.Full.set() {
		return fmt.Errorf("%w: %s missing %s, %s, %s, %s, %s, %s", ErrPlanValidation, p.Name,
			KeyChrA, KeyChrB, KeyStartFullA, KeyEndFullA, KeyStartFullB, KeyEndFullB)
	}
	if p.A.Chr == p.B.Chr {
		return fmt.Errorf("%w: %s has %s == %s (%s)", ErrPlanValidation, p.Name, KeyChrA, KeyChrB, p.A.Chr)
	}
	b := p.Branches()
	if !b.DupAtoB && !b.DupBtoA {
		return fmt.Errorf("%w: %s needs at least one duplication group (%s/%s/%s or %s/%s/%s)", ErrPlanValidation, p.Name,
			KeyStartA, KeyEndA, KeyInsertAfterB, KeyStartB, KeyEndB, KeyInsertAfterA)
	}
	switch {
	case p.RefChr != "" && p.RefUtg == "":
		return fmt.Errorf("%w: %s sets %s without %s; a reference fragment needs both", ErrPlanValidation, p.Name, KeyRefChr, KeyRefUtg)
	case p.RefChr == "" && p.RefUtg != "":
		return fmt.Errorf("%w: %s sets %s without %s; set both or neither", ErrPlanValidation, p.Name, KeyRefUtg, KeyRefChr)
	}
	return nil
}

// Markers lists every configured marker in a stable order, skipping blanks.
func (p Plan) Markers() []string {
	all := []string{
		p.A.Full.Start, p.A.Full.End, p.A.Dup.Start, p.A.Dup.End, p.B.InsertAfter,
		p.B.Full.Start, p.B.Full.End, p.B.Dup.Start, p.B.Dup.End, p.A.InsertAfter,
		p.RefUtg,
	}
	out := all[:0]
	for _, m := range all {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
