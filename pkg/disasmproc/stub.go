package disasmproc

import "context"

// Canned is a Disassembler test double that returns pre-recorded text
// regardless of which class files were requested, so tests can feed
// canned disassembly to the parser without requiring a JDK.
type Canned struct {
	Text string
	Err  error

	// Calls records every invocation's class-file batch, for assertions
	// about chunking behavior.
	Calls [][]string
}

// Disassemble implements core/ingest.Disassembler.
func (c *Canned) Disassemble(_ context.Context, classFilePaths []string) (string, error) {
	c.Calls = append(c.Calls, append([]string{}, classFilePaths...))
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}
