// Package config reads the INI plan file and layers the global settings
// (flags, AGPSPLICE_* environment, the DEFAULT section) with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

var ErrConfig = errors.New("config")

// Lookup backends.
const (
	LookupNative = "native"
	LookupSeqkit = "seqkit"
)

// Global keys, as written in the DEFAULT section (case-insensitive).
const (
	KeyOutputDir    = "output_dir"
	KeyAGPFile      = "agp_file"
	KeyFastaFile    = "fasta_file"
	KeyWorkers      = "workers"
	KeyLookup       = "lookup"
	KeySeqkit       = "seqkit"
	KeyLegacyLayout = "legacy_layout"
	KeyMetricsFile  = "metrics_file"
	KeyS3Bucket     = "s3_bucket"
	KeyS3Prefix     = "s3_prefix"
	KeyS3Region     = "s3_region"
	KeyS3Endpoint   = "s3_endpoint"
	KeyS3PathStyle  = "s3_path_style"
)

// S3 settings for publishing part artifacts. Bucket == "" disables publishing.
type S3 struct {
	Bucket    string `mapstructure:"s3_bucket"`
	Prefix    string `mapstructure:"s3_prefix"`
	Region    string `mapstructure:"s3_region"`
	Endpoint  string `mapstructure:"s3_endpoint"`
	PathStyle bool   `mapstructure:"s3_path_style"`
}

// Global is the run-wide configuration.
type Global struct {
	OutputDir    string `mapstructure:"output_dir"`
	AGPFile      string `mapstructure:"agp_file"`
	FastaFile    string `mapstructure:"fasta_file"`
	Workers      int    `mapstructure:"workers"`
	Lookup       string `mapstructure:"lookup"`
	Seqkit       string `mapstructure:"seqkit"`
	LegacyLayout bool   `mapstructure:"legacy_layout"`
	MetricsFile  string `mapstructure:"metrics_file"`
	S3           S3     `mapstructure:",squash"`
}

// Section is one plan section, in file order, with its name as written.
type Section struct {
	Name   string
	Values map[string]string
}

// File is a parsed plan file.
type File struct {
	Global   Global
	Sections []Section
}

// NewViper returns a viper instance with every global key registered, so
// AGPSPLICE_* environment variables are seen by Unmarshal.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("AGPSPLICE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, k := range []string{
		KeyOutputDir, KeyAGPFile, KeyFastaFile, KeySeqkit, KeyMetricsFile,
		KeyS3Bucket, KeyS3Prefix, KeyS3Region, KeyS3Endpoint,
	} {
		v.SetDefault(k, "")
	}
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyLookup, LookupNative)
	v.SetDefault(KeyLegacyLayout, false)
	v.SetDefault(KeyS3PathStyle, false)
	return v
}

// Load parses path, merges its DEFAULT section into v below flags and
// environment, and validates the globals.
func Load(path string, v *viper.Viper) (File, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return File{}, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}
	return decode(f, v)
}

// Parse is Load over an in-memory document.
func Parse(data []byte, v *viper.Viper) (File, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return File{}, fmt.Errorf("%w: parse: %v", ErrConfig, err)
	}
	return decode(f, v)
}

func decode(f *ini.File, v *viper.Viper) (File, error) {
	inherited := f.Section(ini.DefaultSection).KeysHash()
	defaults := map[string]any{}
	for k, val := range inherited {
		defaults[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(val)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	var out File
	if err := v.Unmarshal(&out.Global); err != nil {
		return File{}, fmt.Errorf("%w: decode globals: %v", ErrConfig, err)
	}
	if err := out.Global.Validate(); err != nil {
		return File{}, err
	}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		out.Sections = append(out.Sections, Section{Name: sec.Name(), Values: withDefaults(sec.KeysHash(), inherited)})
	}
	return out, nil
}

// withDefaults adds every DEFAULT key the section does not set itself,
// comparing names case-insensitively, so plans inherit shared keys.
func withDefaults(own, defaults map[string]string) map[string]string {
	seen := make(map[string]bool, len(own))
	for k := range own {
		seen[strings.ToLower(strings.TrimSpace(k))] = true
	}
	for k, val := range defaults {
		if !seen[strings.ToLower(strings.TrimSpace(k))] {
			own[k] = val
		}
	}
	return own
}

// Validate checks required globals and option values.
func (g *Global) Validate() error {
	var missing []string
	if g.OutputDir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}
	if g.AGPFile == "" {
		missing = append(missing, "AGP_FILE")
	}
	if g.FastaFile == "" {
		missing = append(missing, "FASTA_FILE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing global parameters (%s)", ErrConfig, strings.Join(missing, ", "))
	}
	if g.Workers < 0 {
		return fmt.Errorf("%w: workers must be ≥ 0", ErrConfig)
	}
	if g.Workers == 0 {
		g.Workers = 1
	}
	g.Lookup = strings.ToLower(g.Lookup)
	switch g.Lookup {
	case LookupNative:
	case LookupSeqkit:
		if g.Seqkit == "" {
			g.Seqkit = "seqkit"
		}
	default:
		return fmt.Errorf("%w: invalid lookup %q (native | seqkit)", ErrConfig, g.Lookup)
	}
	return nil
}

// InputSizes checks that the AGP and FASTA inputs are readable regular files
// and returns their sizes in that order.
func (g Global) InputSizes() ([]int64, error) {
	var sizes []int64
	for _, fn := range []string{g.AGPFile, g.FastaFile} {
		st, err := os.Stat(fn)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot access %s: %v", ErrConfig, fn, err)
		}
		if !st.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s is not a regular file", ErrConfig, fn)
		}
		fh, err := os.Open(fn)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read %s: %v", ErrConfig, fn, err)
		}
		_ = fh.Close()
		sizes = append(sizes, st.Size())
	}
	return sizes, nil
}
