package disasm

import "regexp"

// annotationHeaderPattern matches the attribute header lines that open an
// annotation block.
var annotationHeaderPattern = regexp.MustCompile(`^\s*(RuntimeVisibleAnnotations|RuntimeInvisibleAnnotations)\s*:\s*$`)

// annotationEntryPattern matches one annotation entry within a block. The
// disassembler dialect this parser targets resolves the constant-pool
// index to the annotation's type name in a trailing comment, e.g.
// "  0: #7()  // com.acme.Deprecated", mirroring how the constant-pool
// type cache is meant to be consulted.
var annotationEntryPattern = regexp.MustCompile(`^\s*\d+:\s*#(\d+)\([^)]*\)\s*(?://\s*(\S+))?\s*$`)

// parseAnnotationEntry extracts the annotation's type name from line, if
// present directly; otherwise it falls back to the pool-index cache keyed
// by the constant-pool index, since type names in the constant pool are
// cached by their pool index so subsequent references resolve.
func (p *Parser) parseAnnotationEntry(line string) (string, bool) {
	m := annotationEntryPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	poolIdx := m[1]
	if m[2] != "" {
		p.poolTypeCache[poolIdx] = m[2]
		return m[2], true
	}
	if name, ok := p.poolTypeCache[poolIdx]; ok {
		return name, true
	}
	return "", false
}
