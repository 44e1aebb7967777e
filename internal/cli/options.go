// internal/cli/options.go
package cli

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"agpsplice/internal/config"
)

// DefaultConfig is read from the working directory when --config is not given.
const DefaultConfig = "config.txt"

// Options holds flags that are not global config keys.
type Options struct {
	ConfigPath string
	Quiet      bool
}

// flag name -> viper key for flags that mirror DEFAULT-section keys
var bound = map[string]string{
	"output-dir":    config.KeyOutputDir,
	"agp":           config.KeyAGPFile,
	"fasta":         config.KeyFastaFile,
	"workers":       config.KeyWorkers,
	"lookup":        config.KeyLookup,
	"seqkit":        config.KeySeqkit,
	"legacy-layout": config.KeyLegacyLayout,
	"metrics-file":  config.KeyMetricsFile,
	"s3-bucket":     config.KeyS3Bucket,
	"s3-prefix":     config.KeyS3Prefix,
}

// Register adds every flag to fs and binds the config mirrors to v. Flags
// only override the plan file when set explicitly.
func Register(fs *pflag.FlagSet, v *viper.Viper, opt *Options) error {
	fs.StringVarP(&opt.ConfigPath, "config", "c", DefaultConfig, "INI plan file")
	fs.BoolVarP(&opt.Quiet, "quiet", "q", false, "suppress INFO lines on stderr (the run log keeps them)")

	fs.String("output-dir", "", "output directory (overrides OUTPUT_DIR)")
	fs.String("agp", "", "AGP table (overrides AGP_FILE)")
	fs.String("fasta", "", "FASTA archive (overrides FASTA_FILE)")
	fs.Int("workers", 1, "plans run concurrently")
	fs.String("lookup", config.LookupNative, "sequence lookup: native | seqkit")
	fs.String("seqkit", "", "seqkit binary for --lookup seqkit [seqkit]")
	fs.Bool("legacy-layout", false, "omit the A-side fragment when only A is duplicated into B")
	fs.String("metrics-file", "", "write Prometheus textfile metrics here")
	fs.String("s3-bucket", "", "publish part artifacts to this bucket")
	fs.String("s3-prefix", "", "key prefix for published artifacts")

	for name, key := range bound {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
