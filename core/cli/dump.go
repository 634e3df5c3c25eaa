package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// DumpOptions holds the parsed flags for "dump", the standalone
// API-dump-writing entry point (no comparison, one archive in, one dump
// container out).
type DumpOptions struct {
	InputPath string
	DumpPath  string

	LibraryName string
	Version     string

	SkipPackages []string
	KeepPackages []string

	DisasmPath string
}

// DumpRunFunc is injected by cmd/japi/main.go.
type DumpRunFunc func(ctx context.Context, opts DumpOptions) error

// NewDumpCmd creates the "dump" subcommand.
func NewDumpCmd(runFunc DumpRunFunc) *cobra.Command {
	var opts DumpOptions

	cmd := &cobra.Command{
		Use:   "dump <archive>",
		Short: "Write a reusable API dump for a single library version",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateDumpFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputPath = args[0]
			return runFunc(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.DumpPath, "dump-path", "", "Output path for the dump archive (required)")
	flags.StringVar(&opts.LibraryName, "library", "", "Library name recorded in the dump")
	flags.StringVar(&opts.Version, "version", "", "Version label recorded in the dump")
	flags.StringSliceVar(&opts.SkipPackages, "skip-packages", nil, "Package prefixes to exclude from the dump")
	flags.StringSliceVar(&opts.KeepPackages, "keep-packages", nil, "Package prefixes to restrict the dump to")
	flags.StringVar(&opts.DisasmPath, "disasm-path", "javap", "Path to the class-file disassembler binary")

	cmd.MarkFlagRequired("dump-path")

	return cmd
}

func validateDumpFlags(opts DumpOptions) error {
	if opts.DumpPath == "" {
		return fmt.Errorf("--dump-path is required")
	}
	return nil
}
