package disasm

import (
	"regexp"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/model"
)

// typeLinePattern recognizes "(class|interface) NAME [extends X] [implements
// Y,...]" after generics have been stripped and leading modifiers peeled
// off.
var typeLinePattern = regexp.MustCompile(`^(class|interface)\s+([\w.$]+)(?:\s+extends\s+(.+?))?(?:\s+implements\s+(.+?))?\s*\{?\s*$`)

var typeModifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"abstract": true, "final": true, "static": true,
}

// isTypeLine reports whether trimmed looks like a type declaration line,
// without yet committing to parsing it (used to decide when to flush the
// previous type).
func isTypeLine(trimmed string) bool {
	stripped := stripAngleBrackets(trimmed)
	_, rest := peelModifiers(stripped, typeModifierWords)
	return typeLinePattern.MatchString(rest)
}

// peelModifiers consumes leading modifier words from s (each followed by
// whitespace) that are present in allowed, returning the set of modifiers
// seen and the remaining unconsumed suffix.
func peelModifiers(s string, allowed map[string]bool) (map[string]bool, string) {
	seen := make(map[string]bool)
	for {
		s = strings.TrimLeft(s, " \t")
		sp := strings.IndexAny(s, " \t")
		if sp < 0 {
			break
		}
		word := s[:sp]
		if !allowed[word] {
			break
		}
		seen[word] = true
		s = s[sp+1:]
	}
	return seen, strings.TrimSpace(s)
}

// stripAngleBrackets removes every top-level-or-nested balanced <...> run
// from s, used to discard generic type-parameter/argument lists before
// the simpler structural regexes run. Generics are stripped to their name
// only, so this is intentionally a full removal rather than a
// name-preserving rewrite, since for type-line purposes only the base name
// and the extends/implements structure matter.
func stripAngleBrackets(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// startType begins a new Type record from a matched type-declaration line
// and transitions into stateInType.
func (p *Parser) startType(trimmed string) error {
	stripped := stripAngleBrackets(trimmed)
	mods, rest := peelModifiers(stripped, typeModifierWords)
	m := typeLinePattern.FindStringSubmatch(rest)
	if m == nil {
		p.state = stateTop
		return nil
	}

	kindWord, name := m[1], m[2]
	kind := model.KindClass
	if kindWord == "interface" {
		kind = model.KindInterface
	}

	t := p.version.InternType(qualify(p.curPackage, name))
	t.LockKind(kind)
	t.Package = p.curPackage
	t.Archive = p.archive
	t.Modifiers = model.Modifiers{
		Access:   accessFromMods(mods),
		Abstract: mods["abstract"],
		Final:    mods["final"],
		Static:   mods["static"],
	}

	if m[3] != "" {
		superName := strings.TrimSpace(splitGenericList(m[3])[0])
		if superName != "" && superName != "java.lang.Object" {
			t.SuperClass = p.version.InternType(superName).ID
		}
	}
	if m[4] != "" {
		for _, iface := range splitGenericList(m[4]) {
			iface = strings.TrimSpace(iface)
			if iface == "" {
				continue
			}
			t.SuperInterfaces[p.version.InternType(iface).ID] = true
		}
	}

	p.curType = t
	p.state = stateInType
	return nil
}

// accessFromMods derives the Access level from a modifier word set,
// defaulting to package-private when none of the three explicit
// visibility words is present.
func accessFromMods(mods map[string]bool) model.Access {
	switch {
	case mods["public"]:
		return model.AccessPublic
	case mods["protected"]:
		return model.AccessProtected
	case mods["private"]:
		return model.AccessPrivate
	default:
		return model.AccessPackage
	}
}

// qualify joins a package name and simple type name into the fully
// qualified dotted name Type.Name expects. If name already looks fully
// qualified (contains a dot and pkg is a prefix) it is returned unchanged.
func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	if strings.HasPrefix(name, pkg+".") {
		return name
	}
	return pkg + "." + name
}
