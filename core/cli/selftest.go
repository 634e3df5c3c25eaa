package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// SelfTestRunFunc is injected by cmd/japi/main.go. It runs the self-test
// harness and reports pass/fail; a non-nil error should translate to a
// non-zero exit code the same way a real comparison failure does.
type SelfTestRunFunc func(ctx context.Context) error

// NewSelfTestCmd creates the "selftest" subcommand that runs six built-in
// fixture scenarios against the engine's own diff/classify pipeline, with
// no archive, disassembler, or JDK involved.
func NewSelfTestCmd(runFunc SelfTestRunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in compatibility-detection scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context())
		},
	}
	return cmd
}
