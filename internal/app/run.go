// internal/app/run.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"agpsplice-core/agp"
	"agpsplice-core/plan"

	"agpsplice/internal/cli"
	"agpsplice/internal/cmdutil"
	"agpsplice/internal/config"
	"agpsplice/internal/lookup"
	"agpsplice/internal/metrics"
	"agpsplice/internal/output"
	"agpsplice/internal/pipeline"
	"agpsplice/internal/publish"
	"agpsplice/internal/version"
	"agpsplice/pkg/api"
)

// Files kept at the top of OUTPUT_DIR.
const (
	LogFile     = "modify_hic.log" // appended to by every run
	SummaryFile = "summary.json"
)

var errCheckFailed = errors.New("check failed")

func execute(ctx context.Context, v *viper.Viper, opt cli.Options, stderr io.Writer) error {
	log := cmdutil.NewLogger(stderr, opt.Quiet)
	fail := func(err error) error {
		log.Errorf("%v", err)
		return loggedError{err}
	}

	f, err := config.Load(opt.ConfigPath, v)
	if err != nil {
		return fail(err)
	}
	g := f.Global
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return fail(fmt.Errorf("%w: output directory: %v", config.ErrConfig, err))
	}
	release, err := log.Attach(filepath.Join(g.OutputDir, LogFile))
	if err != nil {
		return fail(fmt.Errorf("%w: run log: %v", config.ErrConfig, err))
	}
	defer func() { _ = release() }()

	src, err := loadInputs(log, g)
	if err != nil {
		return fail(err)
	}

	r := &pipeline.Runner{
		Table:  src.Table,
		Lookup: newLookup(g),
		Log:    log,
		Config: pipeline.Config{
			OutputDir: g.OutputDir,
			Archive:   g.FastaFile,
			Layout:    plan.Options{Legacy: g.LegacyLayout, Comments: src.Comments},
		},
	}
	if g.MetricsFile != "" {
		r.Metrics = metrics.New()
	}
	if g.S3.Bucket != "" {
		store, err := publish.NewS3(ctx, publish.S3Config{
			Bucket:    g.S3.Bucket,
			Region:    g.S3.Region,
			Endpoint:  g.S3.Endpoint,
			PathStyle: g.S3.PathStyle,
		})
		if err != nil {
			return fail(fmt.Errorf("%w: s3: %v", config.ErrConfig, err))
		}
		r.Publisher = &publish.Publisher{Store: store, Prefix: g.S3.Prefix}
		log.Infof("publishing artifacts to s3://%s/%s", g.S3.Bucket, g.S3.Prefix)
	}

	if len(f.Sections) == 0 {
		log.Warnf("%s declares no plan sections", opt.ConfigPath)
	}
	sum, runErr := r.Run(ctx, f.Sections, g.Workers)

	if r.Metrics != nil {
		if err := r.Metrics.WriteFile(g.MetricsFile); err != nil {
			log.Warnf("metrics: %v", err)
		} else {
			log.Infof("metrics written to %s", g.MetricsFile)
		}
	}
	log.Infof("%d part(s) done, %d skipped", len(sum.Done), len(sum.Skipped))
	if err := output.WriteSummaryFile(filepath.Join(g.OutputDir, SummaryFile), sum.API(version.Version, runErr)); err != nil {
		log.Warnf("summary: %v", err)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warnf("interrupted")
		}
		// part failures are logged by the runner
		return loggedError{runErr}
	}
	return nil
}

// check validates the plan file and builds every plan in memory. Nothing is
// written and no sequences are looked up.
func check(ctx context.Context, v *viper.Viper, opt cli.Options, format string, stdout, stderr io.Writer) error {
	log := cmdutil.NewLogger(stderr, opt.Quiet)
	f, err := config.Load(opt.ConfigPath, v)
	if err != nil {
		log.Errorf("%v", err)
		return loggedError{err}
	}
	src, err := loadInputs(log, f.Global)
	if err != nil {
		log.Errorf("%v", err)
		return loggedError{err}
	}

	r := &pipeline.Runner{Table: src.Table, Log: log}
	plans, skipped := r.Plans(f.Sections)
	opts := plan.Options{Legacy: f.Global.LegacyLayout, Comments: src.Comments}

	rows := make([]api.CheckV1, 0, len(f.Sections))
	for _, name := range skipped {
		rows = append(rows, api.CheckV1{Part: name, Status: api.CheckInvalid})
	}
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return loggedError{err}
		}
		res, err := plan.Build(src.Table, p, opts)
		if err != nil {
			log.Errorf("%v", err)
			rows = append(rows, api.CheckV1{Part: p.Name, Status: api.CheckFailed, Error: err.Error()})
			continue
		}
		for _, a := range res.AnchorMissing {
			log.Warnf("%s: anchor %s not inside its target range", p.Name, a)
		}
		rows = append(rows, api.CheckV1{
			Part:     p.Name,
			Status:   api.CheckOK,
			Combined: res.Layout.CombinedName,
			Records:  len(res.Combined),
		})
	}

	if format == output.FormatJSON {
		err = output.WriteChecksJSON(stdout, rows)
	} else {
		err = output.WriteChecksText(stdout, rows, true)
	}
	if err != nil && !output.IsBrokenPipe(err) {
		err = fmt.Errorf("write check report: %w", err)
		log.Errorf("%v", err)
		return loggedError{err}
	}

	failed := 0
	for _, row := range rows {
		if row.Status != api.CheckOK {
			failed++
		}
	}
	if failed > 0 {
		err := fmt.Errorf("%w: %d of %d plan(s)", errCheckFailed, failed, len(rows))
		log.Errorf("%v", err)
		return loggedError{err}
	}
	return nil
}

func loadInputs(log *cmdutil.Logger, g config.Global) (agp.Source, error) {
	sizes, err := g.InputSizes()
	if err != nil {
		return agp.Source{}, err
	}
	log.Infof("AGP file %s (%d bytes)", g.AGPFile, sizes[0])
	log.Infof("FASTA file %s (%d bytes)", g.FastaFile, sizes[1])
	src, err := agp.LoadSource(g.AGPFile)
	if err != nil {
		return agp.Source{}, err
	}
	log.Infof("loaded %d AGP records", len(src.Table))
	return src, nil
}

func newLookup(g config.Global) lookup.Lookup {
	if g.Lookup == config.LookupSeqkit {
		return lookup.Seqkit{Path: g.Seqkit}
	}
	return lookup.Native{}
}
