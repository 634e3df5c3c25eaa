package disasm

import (
	"regexp"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/model"
)

var fieldModifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"static": true, "final": true, "transient": true, "volatile": true,
}

// fieldLinePattern matches "<type> <name>;" after modifiers are peeled.
var fieldLinePattern = regexp.MustCompile(`^(.+)\s+([\w$]+)\s*;\s*$`)

// constantValuePattern matches "Constant value: <type> <lit>".
var constantValuePattern = regexp.MustCompile(`^\s*Constant value:\s*(\S+)\s+(.*)$`)

// matchFieldLine reports whether trimmed is a field declaration line and,
// if so, returns the field's (type, name).
func matchFieldLine(trimmed string) (name, typ string, ok bool) {
	if strings.Contains(trimmed, "(") {
		return "", "", false
	}
	stripped := stripAngleBrackets(trimmed)
	_, rest := peelModifiers(stripped, fieldModifierWords)
	m := fieldLinePattern.FindStringSubmatch(rest)
	if m == nil {
		return "", "", false
	}
	return m[2], strings.TrimSpace(m[1]), true
}

// startField registers the Field record, consuming the optional
// lookahead lines for Signature: and Constant value:.
func (p *Parser) startField(lines []string, i *int, name, typ string) error {
	if p.curType == nil {
		return nil
	}

	raw := strings.TrimSpace(lines[*i])
	stripped := stripAngleBrackets(raw)
	mods, _ := peelModifiers(stripped, fieldModifierWords)

	f := &model.Field{
		Name:      name,
		Type:      p.version.InternType(stripGenericParams(typ)).ID,
		Access:    accessFromMods(mods),
		Final:     mods["final"],
		Static:    mods["static"],
		Transient: mods["transient"],
		Volatile:  mods["volatile"],
	}

	// Optional Signature: lookahead — generic field type refinement;
	// doesn't change f.Type (already erased), so it is only consumed to
	// advance the scan past it.
	if *i+1 < len(lines) && descriptorLinePattern.MatchString(strings.TrimSpace(lines[*i+1])) {
		*i++
	}

	// Optional Constant value: lookahead.
	if *i+1 < len(lines) {
		if m := constantValuePattern.FindStringSubmatch(strings.TrimSpace(lines[*i+1])); m != nil {
			*i++
			f.Value = constantLiteral(m[2])
		}
	}

	p.curType.AddField(f)
	return nil
}

// constantLiteral normalizes a constant's literal text, substituting the
// EMPTY_STRING sentinel for the zero-length string literal so later
// comparators can distinguish "unknown" from "known empty".
func constantLiteral(lit string) string {
	lit = strings.TrimSpace(lit)
	if lit == `""` {
		return model.EmptyStringValue
	}
	return lit
}
