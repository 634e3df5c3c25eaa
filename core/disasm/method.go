package disasm

import (
	"regexp"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/model"
)

var methodModifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"abstract": true, "final": true, "static": true,
	"native": true, "synchronized": true,
}

// methodLinePattern matches "<return> <name>(<params>) [throws <list>];"
// after modifiers have been peeled. The return type is optional (absent
// for constructors).
var methodLinePattern = regexp.MustCompile(`^(?:(.+)\s+)?([\w$]+)\(([^()]*)\)(?:\s+throws\s+(.+?))?\s*;\s*$`)

// descriptorLinePattern matches the mandatory line that must immediately
// follow a method signature line, carrying the JVM descriptor.
var descriptorLinePattern = regexp.MustCompile(`^\s*(?:Signature|descriptor)\s*:\s*(\S+)\s*$`)

// matchMethodLine reports whether trimmed is a method signature line and,
// if so, returns its (returnType, paramTypesList, throwsList) pieces with
// generics already stripped.
func matchMethodLine(trimmed string) (sig methodSig, ok bool) {
	stripped := stripAngleBrackets(trimmed)
	_, rest := peelModifiers(stripped, methodModifierWords)
	m := methodLinePattern.FindStringSubmatch(rest)
	if m == nil {
		return methodSig{}, false
	}
	sig = methodSig{
		returnType: strings.TrimSpace(m[1]),
		name:       m[2],
		params:     splitGenericList(m[3]),
		throws:     splitGenericList(m[4]),
	}
	return sig, true
}

type methodSig struct {
	returnType string
	name       string
	params     []string
	throws     []string
}

// startMethod consumes the mandatory descriptor lookahead line and
// registers the Method record. *i is advanced past the descriptor line.
func (p *Parser) startMethod(lines []string, i *int, sig methodSig) error {
	if p.curType == nil {
		return nil
	}

	// Re-parse modifiers from the original (un-stripped, un-peeled) line
	// so we retain them for the Method record.
	raw := strings.TrimSpace(lines[*i])
	stripped := stripAngleBrackets(raw)
	mods, _ := peelModifiers(stripped, methodModifierWords)

	if *i+1 >= len(lines) || !descriptorLinePattern.MatchString(lines[*i+1]) {
		return p.internalErrorf("method signature missing mandatory descriptor line: " + raw)
	}
	descMatch := descriptorLinePattern.FindStringSubmatch(lines[*i+1])
	*i++

	m := p.version.NewMethod(p.curType.ID)
	m.ShortName = sig.name
	m.Descriptor = descMatch[1]
	m.Archive = p.archive
	m.Modifiers = model.Modifiers{
		Access:   accessFromMods(mods),
		Abstract: mods["abstract"],
		Final:    mods["final"],
		Static:   mods["static"],
	}
	m.Native = mods["native"]
	m.Synchronized = mods["synchronized"]

	className := localName(p.curType.Name)
	if sig.name == className && sig.returnType == "" {
		m.Constructor = true
	} else if sig.returnType != "" {
		m.Return = p.version.InternType(strings.TrimSpace(splitGenericList(sig.returnType)[0])).ID
	}

	for _, ptype := range sig.params {
		if ptype == "" {
			continue
		}
		m.Params = append(m.Params, model.Parameter{Type: p.version.InternType(stripGenericParams(ptype)).ID})
	}
	for _, ex := range sig.throws {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		m.Exceptions[p.version.InternType(ex).ID] = true
	}

	if m.Constructor && (m.Access == model.AccessPublic || m.Access == model.AccessProtected) {
		p.version.MarkConstructible(p.curType.ID)
	}

	p.curMethod = m
	p.state = stateInMethod
	return nil
}

// localName strips a package-qualified name down to its final segment.
func localName(fqName string) string {
	idx := strings.LastIndexByte(fqName, '.')
	if idx < 0 {
		return fqName
	}
	return fqName[idx+1:]
}

// recordParamSlot stores one LocalVariableTable row's slot->name mapping.
func (p *Parser) recordParamSlot(m []string) {
	var slot int
	for _, c := range m[1] {
		slot = slot*10 + int(c-'0')
	}
	if _, exists := p.paramSlotNames[slot]; !exists {
		p.paramSlotNames[slot] = m[2]
	}
}

// applyParamNames assigns recovered parameter names to the current
// method's Params, skipping the synthetic "this" slot for instance
// methods. Skipped entirely under quick mode.
func (p *Parser) applyParamNames() {
	if p.opts.Quick || p.curMethod == nil || len(p.paramSlotNames) == 0 {
		p.paramSlotNames = nil
		return
	}
	firstSlot := 0
	if !p.curMethod.Static {
		firstSlot = 1 // slot 0 is "this"
	}
	for idx := range p.curMethod.Params {
		if name, ok := p.paramSlotNames[firstSlot+idx]; ok {
			p.curMethod.Params[idx].Name = name
		}
	}
	p.paramSlotNames = nil
}
