// Package disasm implements a line-oriented state machine that consumes
// the textual disassembly of one or more class files and populates a
// model.Version plus its usage.Tables.
package disasm

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

// Options configures how much the parser extracts, mirroring the CLI's
// quick/check-implementation flags.
type Options struct {
	// Quick skips parameter-name recovery from LocalVariableTable. Field
	// constant values and invocation records are collected either way.
	Quick bool
	// CheckImplementation is carried through from the CLI; the parser does
	// not read it, and records no field uses and no method bodies.
	CheckImplementation bool
	// KeepInternal disables the implicit internal-package filter (applied
	// by the caller in core/ingest, not here; kept on Options so a single
	// struct threads through the whole ingest->parse pipeline).
	KeepInternal bool
}

// Parser holds the state-machine's current position while scanning one
// disassembly stream (which may carry multiple classes back to back).
type Parser struct {
	version *model.Version
	tables  *usage.Tables
	archive string
	opts    Options

	state      state
	curPackage string
	curType    *model.Type
	curMethod  *model.Method

	deprecatedPendingType bool

	paramSlotNames map[int]string // slot -> name, from LocalVariableTable
	poolTypeCache  map[string]string

	pending []pendingInvocation

	lineNum int
}

// NewParser creates a Parser that populates version and tables for classes
// whose source archive is archive.
func NewParser(version *model.Version, tables *usage.Tables, archive string, opts Options) *Parser {
	return &Parser{
		version:       version,
		tables:        tables,
		archive:       archive,
		opts:          opts,
		state:         stateTop,
		poolTypeCache: make(map[string]string),
	}
}

// ParseText scans the full textual disassembly of one or more class files
// and returns an error only for a disassembly-contract violation (a fatal
// internal-error case) — a missing return value is not itself an error.
func (p *Parser) ParseText(text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	for i := 0; i < len(lines); i++ {
		p.lineNum = i + 1
		line := lines[i]

		if err := p.dispatch(line, lines, &i); err != nil {
			return err
		}
	}

	p.flushType()
	resolvePendingInvocations(p.version, p.tables, p.pending)
	return nil
}

// dispatch routes one line according to the current state. i is mutated by
// lookahead-consuming branches (e.g. the mandatory descriptor line after a
// method signature) so the outer loop's next iteration skips past it.
func (p *Parser) dispatch(line string, lines []string, i *int) error {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return nil

	case annotationHeaderPattern.MatchString(line):
		p.state = stateInAnnotations
		return nil

	case p.state == stateInAnnotations:
		if name, ok := p.parseAnnotationEntry(line); ok {
			p.addAnnotation(name)
			return nil
		}
		// Any non-matching line closes the annotation block.
		p.state = p.stateAfterAnnotations()
		return p.dispatch(line, lines, i)

	case deprecatedPattern.MatchString(line):
		p.markDeprecated()
		return nil

	case localVarTableHeaderPattern.MatchString(line):
		p.state = stateInParamTable
		p.paramSlotNames = make(map[int]string)
		return nil

	case p.state == stateInParamTable:
		if m := localVarRowPattern.FindStringSubmatch(line); m != nil {
			p.recordParamSlot(m)
			return nil
		}
		p.applyParamNames()
		p.state = stateInMethod
		return p.dispatch(line, lines, i)

	case codeHeaderPattern.MatchString(line):
		p.state = stateInCode
		return nil

	case p.state == stateInCode:
		if isInvokeInstruction(line) {
			p.recordInvoke(line)
			return nil
		}
		if isEndOfCode(line) {
			p.state = stateInMethod
			return nil
		}
		return nil

	case isTypeLine(trimmed):
		p.flushType()
		return p.startType(trimmed)

	default:
		if p.curType == nil {
			return nil
		}
		if sig, ok := matchMethodLine(trimmed); ok {
			return p.startMethod(lines, i, sig)
		}
		if name, typ, ok := matchFieldLine(trimmed); ok {
			return p.startField(lines, i, name, typ)
		}
		return nil
	}
}

// stateAfterAnnotations returns to InMethod if a method is open, else
// InType.
func (p *Parser) stateAfterAnnotations() state {
	if p.curMethod != nil {
		return stateInMethod
	}
	return stateInType
}

var (
	deprecatedPattern         = regexp.MustCompile(`^\s*Deprecated:\s*true\s*$`)
	localVarTableHeaderPattern = regexp.MustCompile(`^\s*LocalVariableTable:\s*$`)
	localVarRowPattern        = regexp.MustCompile(`^\s*\d+\s+\d+\s+(\d+)\s+(\S+)\s+\S+\s*$`)
	codeHeaderPattern         = regexp.MustCompile(`^\s*Code:\s*$`)
)

// isEndOfCode reports whether line marks the end of a Code attribute's
// listing: a blank line or the start of another attribute/member in javap
// output is handled by the outer blank-line/dispatch-reentry logic, but an
// explicit attribute header (LineNumberTable, LocalVariableTable, etc.)
// also closes Code.
func isEndOfCode(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasSuffix(t, ":") && !strings.Contains(t, " ")
}

// markDeprecated marks the innermost open scope (method if one is open,
// else the current type) deprecated.
func (p *Parser) markDeprecated() {
	if p.curMethod != nil {
		p.curMethod.Deprecated = true
		return
	}
	if p.curType != nil {
		p.curType.Deprecated = true
	}
}

// addAnnotation records an annotation type on whichever scope is
// currently open.
func (p *Parser) addAnnotation(typeName string) {
	id := p.version.InternType(typeName).ID
	if p.curMethod != nil {
		p.curMethod.Annotations[id] = true
		return
	}
	if p.curType != nil {
		p.curType.Annotations[id] = true
	}
}

// flushType finalizes the currently open type, applying any pending
// method flush first: an immediately preceding type is flushed to the
// model when a new type line is seen.
func (p *Parser) flushType() {
	p.flushMethod()
	p.curType = nil
}

func (p *Parser) flushMethod() {
	if p.curMethod != nil {
		p.applyParamNames()
	}
	p.curMethod = nil
	p.state = stateInType
}

// internalErrorf is a convenience wrapper returning a tagged
// apperr.InternalError with the current line number attached.
func (p *Parser) internalErrorf(reason string) error {
	return &apperr.InternalError{Reason: reason + " (line " + strconv.Itoa(p.lineNum) + ")"}
}
