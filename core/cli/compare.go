package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// CompareOptions holds the parsed flags for "compare" realized as cobra
// flags.
type CompareOptions struct {
	OldPath string
	NewPath string

	LibraryName string
	Version1    string
	Version2    string

	ClientPath    string
	ClassListPath string

	Binary bool
	Source bool

	ReportPath    string
	BinReportPath string
	SrcReportPath string

	Short                bool
	Strict               bool
	KeepInternal         bool
	Quick                bool
	CheckImplementation  bool

	SkipPackages []string
	KeepPackages []string

	DisasmPath string
}

// CompareRunFunc is injected by cmd/japi/main.go, the same
// business-logic-as-closure wiring used for the other subcommands.
type CompareRunFunc func(ctx context.Context, opts CompareOptions) error

// NewCompareCmd creates the "compare" subcommand.
func NewCompareCmd(runFunc CompareRunFunc) *cobra.Command {
	var opts CompareOptions

	cmd := &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Compare two versions of a Java library for API compatibility",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateCompareFlags(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.OldPath = args[0]
			opts.NewPath = args[1]
			return runFunc(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.LibraryName, "library", "", "Library name used in the report and output path")
	flags.StringVar(&opts.Version1, "version1", "", "Override the old input's version label")
	flags.StringVar(&opts.Version2, "version2", "", "Override the new input's version label")
	flags.StringVar(&opts.ClientPath, "client", "", "Client archive path (accepted; analysis is not restricted by it)")
	flags.StringVar(&opts.ClassListPath, "class-list", "", "Class-name list path (accepted; analysis is not restricted by it)")
	flags.BoolVar(&opts.Binary, "binary", false, "Emit the binary compatibility report")
	flags.BoolVar(&opts.Source, "source", false, "Emit the source compatibility report")
	flags.StringVar(&opts.ReportPath, "report-path", "", "Override the combined report output path")
	flags.StringVar(&opts.BinReportPath, "bin-report-path", "", "Override the binary report output path")
	flags.StringVar(&opts.SrcReportPath, "src-report-path", "", "Override the source report output path")
	flags.BoolVar(&opts.Short, "short", false, "Accepted; has no effect on the report")
	flags.BoolVar(&opts.Strict, "strict", false, "Accepted; has no effect on severities or the exit code")
	flags.BoolVar(&opts.KeepInternal, "keep-internal", false, "Disable the implicit internal-package filter")
	flags.BoolVar(&opts.Quick, "quick", false, "Skip parameter-name recovery, bypass the constructibility gate, and downgrade uncalled added abstract methods to Low instead of Safe; field values and invocations are still analyzed")
	flags.BoolVar(&opts.CheckImplementation, "check-implementation", false, "Accepted; method bodies are not compared")
	flags.StringSliceVar(&opts.SkipPackages, "skip-packages", nil, "Package prefixes to exclude from analysis")
	flags.StringSliceVar(&opts.KeepPackages, "keep-packages", nil, "Package prefixes to restrict analysis to")
	flags.StringVar(&opts.DisasmPath, "disasm-path", "javap", "Path to the class-file disassembler binary")

	return cmd
}

func validateCompareFlags(args []string) error {
	if args[0] == args[1] {
		return fmt.Errorf("old and new inputs must differ")
	}
	return nil
}
