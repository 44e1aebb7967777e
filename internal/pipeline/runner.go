// internal/pipeline/runner.go
package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"agpsplice-core/plan"

	"agpsplice/internal/config"
	"agpsplice/internal/metrics"
	"agpsplice/pkg/api"
)

// Summary of a whole run.
type Summary struct {
	Done    []Outcome // in section order
	Skipped []string
}

// API converts the summary to the stable wire schema. err is the run error,
// if any.
func (s Summary) API(version string, err error) api.SummaryV1 {
	out := api.SummaryV1{Version: version, Skipped: s.Skipped}
	for _, o := range s.Done {
		out.Parts = append(out.Parts, api.PartV1{
			Part:        o.Part,
			Dir:         o.Dir,
			Combined:    o.Combined,
			Archive:     o.Archive,
			Identifiers: len(o.Identifiers),
			Sequences:   o.Report.Sequences,
			Missing:     o.Report.Missing,
			Unmatched:   o.Report.Unmatched,
			Published:   o.Published,
		})
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// Plans validates sections in order. Invalid ones are logged and returned as
// skipped; they never stop the run.
func (r *Runner) Plans(sections []config.Section) (valid []plan.Plan, skipped []string) {
	for _, s := range sections {
		r.Log.Infof("processing section %s", s.Name)
		p, err := plan.FromSection(s.Name, s.Values)
		if err != nil {
			r.Log.Errorf("%v", err)
			skipped = append(skipped, s.Name)
			r.record(metrics.StatusSkipped)
			continue
		}
		valid = append(valid, p)
	}
	return valid, skipped
}

// Run validates every section and runs the valid plans with at most workers
// in flight. The first fatal error cancels the remaining plans and is
// returned.
func (r *Runner) Run(ctx context.Context, sections []config.Section, workers int) (Summary, error) {
	plans, skipped := r.Plans(sections)
	sum := Summary{Skipped: skipped}
	if workers < 1 {
		workers = 1
	}

	results := make([]Outcome, len(plans))
	done := make([]bool, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range plans {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.RunPart(gctx, p)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					r.Log.Errorf("%v", err)
				}
				r.record(metrics.StatusFailed)
				return err
			}
			results[i], done[i] = out, true
			r.record(metrics.StatusDone)
			return nil
		})
	}
	err := g.Wait()
	for i, ok := range done {
		if ok {
			sum.Done = append(sum.Done, results[i])
		}
	}
	return sum, err
}

func (r *Runner) record(status string) {
	if r.Metrics != nil {
		r.Metrics.Plan(status)
	}
}
