// core/plan/layout.go
package plan

import (
	"fmt"
	"strings"
)

// Kind tags what a fragment holds.
type Kind int

const (
	KindFull Kind = iota // full-range extract
	KindAdd              // duplicate-range extract
	KindNew              // spliced table, or a copy of the full table
	KindRef              // reference records
)

// Key names one fragment of a plan.
type Key struct {
	Chr  string
	Kind Kind
}

// FileName is the on-disk name the fragment is written under.
func (k Key) FileName() string {
	switch k.Kind {
	case KindFull:
		return fmt.Sprintf("Chromosome%s_full.txt", k.Chr)
	case KindAdd:
		return fmt.Sprintf("Chromosome%s_add.txt", k.Chr)
	case KindNew:
		return fmt.Sprintf("Chromosome%s_new.txt", k.Chr)
	default:
		return fmt.Sprintf("Chromosome%s.txt", k.Chr)
	}
}

func (k Key) String() string { return strings.TrimSuffix(k.FileName(), ".txt") }

// Layout is the assembly decision for a plan: which fragments are
// concatenated, in order, and what the outputs are called.
type Layout struct {
	Fragments    []Key
	CombinedName string // e.g. Chromosome3-5new-7.txt
	ArchiveName  string // e.g. Chromosome3-5-7_new.fasta
}

// Options tune Build and Plan.Layout.
type Options struct {
	// Comments are the table's '#' lines. The marker check searches them too.
	Comments []string

	// Legacy drops the A-side fragment when only the A→B branch is active,
	// matching the historical tool.
	Legacy bool
}

// Layout orders fragments as [reference, B side, A side] and derives names.
// The B side is always present. The A side is present unless opts.Legacy is
// set and the plan only duplicates A into B.
func (p Plan) Layout(opts Options) Layout {
	b := p.Branches()
	var (
		keys     []Key
		combined []string
		archive  []string
	)
	if b.HasRef {
		keys = append(keys, Key{p.RefChr, KindRef})
		combined = append(combined, p.RefChr)
		archive = append(archive, p.RefChr)
	}

	keys = append(keys, Key{p.B.Chr, KindNew})
	combined = append(combined, suffixed(p.B.Chr, b.DupAtoB))
	archive = append(archive, p.B.Chr)

	if b.DupBtoA || !b.DupAtoB || !opts.Legacy {
		keys = append(keys, Key{p.A.Chr, KindNew})
		combined = append(combined, suffixed(p.A.Chr, b.DupBtoA))
		archive = append(archive, p.A.Chr)
	}

	return Layout{
		Fragments:    keys,
		CombinedName: "Chromosome" + strings.Join(combined, "-") + ".txt",
		ArchiveName:  "Chromosome" + strings.Join(archive, "-") + "_new.fasta",
	}
}

func suffixed(chr string, edited bool) string {
	if edited {
		return chr + "new"
	}
	return chr
}
