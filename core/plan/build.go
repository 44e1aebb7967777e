// core/plan/build.go
package plan

import (
	"fmt"

	"agpsplice-core/agp"
)

// Result is everything Build produced for one plan.
type Result struct {
	Fragments *Registry
	Layout    Layout
	Combined  agp.Table
	// AnchorMissing lists insertion anchors that never matched their target,
	// so the fragment landed at the end of the table.
	AnchorMissing []string
}

// Build runs extraction, splicing, and assembly for p over the shared table.
// table is only read.
func Build(table agp.Table, p Plan, opts Options) (Result, error) {
	if err := agp.RequireMarkers(agp.Source{Table: table, Comments: opts.Comments}, p.Markers()...); err != nil {
		return Result{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	reg := NewRegistry()
	res := Result{Fragments: reg}

	for _, s := range []Side{p.A, p.B} {
		full, err := agp.Extract(table, s.Full.Start, s.Full.End)
		if err != nil {
			return Result{}, fmt.Errorf("%s: chromosome %s: %w", p.Name, s.Chr, err)
		}
		reg.Put(Key{s.Chr, KindFull}, full)
	}
	for _, s := range []Side{p.A, p.B} {
		if !s.Dup.set() {
			continue
		}
		add, err := agp.Extract(table, s.Dup.Start, s.Dup.End)
		if err != nil {
			return Result{}, fmt.Errorf("%s: duplicate of %s: %w", p.Name, s.Chr, err)
		}
		reg.Put(Key{s.Chr, KindAdd}, add)
	}

	br := p.Branches()
	if err := res.side(reg, p.B, p.A, br.DupAtoB); err != nil {
		return Result{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	if err := res.side(reg, p.A, p.B, br.DupBtoA); err != nil {
		return Result{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	if br.HasRef {
		ref, err := agp.Select(table, p.RefUtg)
		if err != nil {
			return Result{}, fmt.Errorf("%s: reference %s: %w", p.Name, p.RefChr, err)
		}
		reg.Put(Key{p.RefChr, KindRef}, ref)
	}

	res.Layout = p.Layout(opts)
	combined, err := reg.Assemble(res.Layout)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	res.Combined = combined
	return res, nil
}

// side builds target's "new" fragment: target's full table with donor's
// duplicate spliced after target.InsertAfter when edit is set, otherwise a
// copy of the full table.
func (res *Result) side(reg *Registry, target, donor Side, edit bool) error {
	full, _ := reg.Get(Key{target.Chr, KindFull})
	if !edit {
		reg.Put(Key{target.Chr, KindNew}, append(agp.Table(nil), full...))
		return nil
	}
	add, _ := reg.Get(Key{donor.Chr, KindAdd})
	if !agp.AnchorFound(full, target.InsertAfter) {
		res.AnchorMissing = append(res.AnchorMissing, target.InsertAfter)
	}
	spliced, err := agp.Splice(full, target.InsertAfter, add)
	if err != nil {
		return fmt.Errorf("chromosome %s: %w", target.Chr, err)
	}
	reg.Put(Key{target.Chr, KindNew}, spliced)
	return nil
}
