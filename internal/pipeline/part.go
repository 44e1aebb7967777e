// internal/pipeline/part.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agpsplice-core/agp"
	"agpsplice-core/ident"
	"agpsplice-core/plan"

	"agpsplice/internal/cmdutil"
	"agpsplice/internal/lookup"
	"agpsplice/internal/metrics"
	"agpsplice/internal/publish"
)

// Artifact names that do not depend on chromosome labels.
const (
	RawPatternsFile = "raw_utg_patterns.txt"
	PatternsFile    = "utg_patterns.txt"
	MissingFile     = "missing_utgs.txt"
)

// Config is what every part shares.
type Config struct {
	OutputDir string
	// Archive is the source FASTA the lookup reads from.
	Archive string
	Layout  plan.Options
}

// Runner executes plans. Table is read-only and shared by all parts.
// Metrics and Publisher are optional.
type Runner struct {
	Table     agp.Table
	Lookup    lookup.Lookup
	Log       *cmdutil.Logger
	Metrics   *metrics.Recorder
	Publisher *publish.Publisher
	Config    Config
}

// Outcome describes a finished part.
type Outcome struct {
	Part        string
	Dir         string
	Combined    string
	Archive     string
	Identifiers ident.Set
	Report      ident.Report
	Published   []string
}

// RunPart runs one validated plan. Every error it returns is fatal for the run.
func (r *Runner) RunPart(ctx context.Context, p plan.Plan) (Outcome, error) {
	dir := filepath.Join(r.Config.OutputDir, p.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	r.Log.Infof("%s: part directory %s", p.Name, dir)

	br := p.Branches()
	r.Log.Infof("%s: extracting Chromosome%s %s..%s and Chromosome%s %s..%s", p.Name,
		p.A.Chr, p.A.Full.Start, p.A.Full.End, p.B.Chr, p.B.Full.Start, p.B.Full.End)
	res, err := plan.Build(r.Table, p, r.Config.Layout)
	if err != nil {
		return Outcome{}, err
	}
	r.logEdits(p, br)
	for _, a := range res.AnchorMissing {
		r.Log.Warnf("%s: anchor %s not inside its target range; fragment appended at the end", p.Name, a)
	}

	for _, k := range res.Fragments.Keys() {
		t, _ := res.Fragments.Get(k)
		if err := writeTable(filepath.Join(dir, k.FileName()), t); err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
		}
	}

	out := Outcome{
		Part:     p.Name,
		Dir:      dir,
		Combined: filepath.Join(dir, res.Layout.CombinedName),
		Archive:  filepath.Join(dir, res.Layout.ArchiveName),
	}
	r.Log.Infof("%s: combining %s into %s", p.Name, keyList(res.Layout.Fragments), out.Combined)
	if err := writeTable(out.Combined, res.Combined); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	raw := res.Combined.Column(5)
	rawPath := filepath.Join(dir, RawPatternsFile)
	if err := writeLines(rawPath, raw); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	ids, err := ident.Derive(res.Combined)
	if err != nil {
		r.Log.Errorf("%s: %s is empty, check %s; column 6:\n%s", p.Name, PatternsFile, rawPath, strings.Join(raw, "\n"))
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	out.Identifiers = ids
	if err := writeLines(filepath.Join(dir, PatternsFile), ids); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	r.Log.Infof("%s: found %d unique unitig identifiers", p.Name, len(ids))

	r.Log.Infof("%s: extracting sequences to %s", p.Name, res.Layout.ArchiveName)
	got, err := r.Lookup.Grep(ctx, ids, r.Config.Archive, out.Archive)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	if st, err := os.Stat(out.Archive); err == nil {
		r.Log.Infof("%s: %s is %d bytes", p.Name, out.Archive, st.Size())
	}
	r.Log.Infof("%s: archive holds %d sequences", p.Name, got.Count)

	out.Report, err = r.reconcile(ctx, p.Name, dir, ids, got)
	if err != nil {
		return Outcome{}, err
	}
	if r.Metrics != nil {
		r.Metrics.Part(p.Name, len(ids), got.Count)
	}
	if r.Publisher != nil {
		keys, err := r.Publisher.Part(ctx, p.Name, dir)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
		}
		out.Published = keys
		r.Log.Infof("%s: published %d artifacts", p.Name, len(keys))
	}
	r.Log.Infof("%s: done: %s", p.Name, out.Archive)
	return out, nil
}

func (r *Runner) reconcile(ctx context.Context, part, dir string, ids ident.Set, got lookup.Result) (ident.Report, error) {
	if len(ids) == got.Count {
		return ident.Reconcile(ids, got.Count, nil, nil), nil
	}
	r.Log.Warnf("%s: identifier count (%d) differs from sequence count (%d)", part, len(ids), got.Count)
	names, err := r.Lookup.Names(ctx, r.Config.Archive)
	if err != nil {
		return ident.Report{}, fmt.Errorf("%s: list archive names: %w", part, err)
	}
	rep := ident.Reconcile(ids, got.Count, names, got.Returned)
	if err := writeLines(filepath.Join(dir, MissingFile), rep.Missing); err != nil {
		return ident.Report{}, fmt.Errorf("%s: %w", part, err)
	}
	r.Log.Warnf("%s: archive names outside the identifier set:\n%s", part, strings.Join(rep.Missing, "\n"))
	if len(rep.Unmatched) > 0 {
		r.Log.Warnf("%s: identifiers with no sequence: %s", part, strings.Join(rep.Unmatched, ", "))
	}
	return rep, nil
}

func (r *Runner) logEdits(p plan.Plan, br plan.Branches) {
	if br.DupAtoB {
		r.Log.Infof("%s: inserted Chromosome%s %s..%s after %s in Chromosome%s", p.Name,
			p.A.Chr, p.A.Dup.Start, p.A.Dup.End, p.B.InsertAfter, p.B.Chr)
	} else {
		r.Log.Infof("%s: Chromosome%s kept as is", p.Name, p.B.Chr)
	}
	if br.DupBtoA {
		r.Log.Infof("%s: inserted Chromosome%s %s..%s after %s in Chromosome%s", p.Name,
			p.B.Chr, p.B.Dup.Start, p.B.Dup.End, p.A.InsertAfter, p.A.Chr)
	} else {
		r.Log.Infof("%s: Chromosome%s kept as is", p.Name, p.A.Chr)
	}
	if br.HasRef {
		r.Log.Infof("%s: reference Chromosome%s from %s", p.Name, p.RefChr, p.RefUtg)
	}
}

func keyList(keys []plan.Key) string {
	s := make([]string, 0, len(keys))
	for _, k := range keys {
		s = append(s, k.String())
	}
	return strings.Join(s, " + ")
}

func writeTable(fn string, t agp.Table) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := agp.Write(fh, t); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return fh.Close()
}

func writeLines(fn string, lines []string) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := agp.WriteColumn(fh, lines); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return fh.Close()
}
