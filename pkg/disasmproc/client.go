// Package disasmproc invokes an external class-file disassembler binary
// and returns its textual output, implementing core/ingest.Disassembler.
// It is the engine's one external-process boundary: every
// invocation runs inside a per-chunk scratch directory with guaranteed
// cleanup, and argument quoting is handled for free by exec.Command's
// argv-array calling convention (no shell is ever invoked, so there is no
// shell-metacharacter surface to quote against in the first place).
package disasmproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/lvc/japi-compliance-checker/core/apperr"
)

// defaultArgs are the disassembler flags this engine depends on: verbose
// output (constant pool, code, LocalVariableTable), private members
// included, internal type signatures (-s), and constant values of final
// fields (-constants).
var defaultArgs = []string{"-verbose", "-private", "-s", "-constants"}

// Client runs a local disassembler binary (e.g. "javap") against batches
// of class files.
type Client struct {
	BinPath string
	Args    []string
	Timeout time.Duration
}

// NewClient creates a Client for binPath with the engine's default flags
// and a conservative per-batch timeout.
func NewClient(binPath string) *Client {
	return &Client{
		BinPath: binPath,
		Args:    defaultArgs,
		Timeout: 2 * time.Minute,
	}
}

// Disassemble runs the disassembler against classFilePaths inside a fresh
// scratch directory (used as the process's working directory so any
// incidental files it writes — some disassemblers accept -d for cached
// output — are cleaned up unconditionally) and returns its stdout.
func (c *Client) Disassemble(ctx context.Context, classFilePaths []string) (string, error) {
	if len(classFilePaths) == 0 {
		return "", nil
	}

	scratchDir, err := os.MkdirTemp("", "japicc-disasm-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	runCtx := ctx
	var cancel context.CancelFunc
	if c.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Args...), classFilePaths...)
	cmd := exec.CommandContext(runCtx, c.BinPath, args...)
	cmd.Dir = scratchDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if isNotFoundErr(err) {
			return "", &apperr.NotFound{Tool: c.BinPath, Err: err}
		}
		return "", fmt.Errorf("running %s: %w (stderr: %s)", c.BinPath, err, stderr.String())
	}

	return stdout.String(), nil
}

func isNotFoundErr(err error) bool {
	var execErr *exec.Error
	if e, ok := err.(*exec.Error); ok {
		execErr = e
	}
	return execErr != nil && execErr.Err == exec.ErrNotFound
}
