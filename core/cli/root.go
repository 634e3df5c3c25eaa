// Package cli builds the cobra command tree for the engine: compare, dump,
// and selftest, each a thin command/flag definition with business logic
// injected as a RunFunc closure from cmd/japi/main.go.
package cli

import "github.com/spf13/cobra"

// NewRootCmd creates the top-level japicc command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "japicc",
		Short: "Java API compliance checker",
		Long:  "Compares two versions of a Java library's class archives for binary and source compatibility.",
	}
	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}
