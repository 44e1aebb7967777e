// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"agpsplice/internal/cli"
	"agpsplice/internal/config"
	"agpsplice/internal/output"
	"agpsplice/internal/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitFailure  = 3
	ExitCanceled = 130
)

const long = `Duplicate and splice AGP component ranges between chromosomes.

The plan file is INI. Its DEFAULT section names OUTPUT_DIR, AGP_FILE and
FASTA_FILE; every other section is a part that extracts the full ranges of
CHR_A and CHR_B, copies START_UTG_A..END_UTG_A after INSERT_AFTER_UTG_B and/or
START_UTG_B..END_UTG_B after INSERT_AFTER_UTG_A, concatenates
[REF_CHR +] CHR_B + CHR_A and pulls the referenced unitigs out of FASTA_FILE.`

// loggedError is an error the run logger has already reported.
type loggedError struct{ err error }

func (e loggedError) Error() string { return e.err.Error() }
func (e loggedError) Unwrap() error { return e.err }

// NewRootCmd builds the command tree. With no subcommand it behaves like "run".
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := config.NewViper()
	opt := &cli.Options{}

	runE := func(cmd *cobra.Command, _ []string) error {
		return execute(cmd.Context(), v, *opt, stderr)
	}
	root := &cobra.Command{
		Use:           "agpsplice",
		Short:         "Duplicate and splice AGP component ranges between chromosomes",
		Long:          long,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runE,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := cli.Register(root.PersistentFlags(), v, opt); err != nil {
		// flag names are static; this only fires on a programming error
		panic(err)
	}

	var format string
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the plan file and every plan's markers without writing output",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return output.ValidateFormat(format)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return check(cmd.Context(), v, *opt, format, stdout, stderr)
		},
	}
	checkCmd.Flags().StringVar(&format, "format", output.FormatText, "report format: text | json")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run every plan in the plan file (default)",
		Args:  cobra.NoArgs,
		RunE:  runE,
	}, checkCmd)
	return root
}

// RunContext runs the CLI with argv and maps the outcome to an exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(argv)
	return exitCode(root.ExecuteContext(ctx), stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var le loggedError
	logged := errors.As(err, &le)
	if !logged {
		_, _ = fmt.Fprintln(stderr, "agpsplice:", err)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, config.ErrConfig), !logged:
		// config problems and cobra's own flag/argument errors
		return ExitUsage
	default:
		return ExitFailure
	}
}
