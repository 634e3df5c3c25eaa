package diff

import "github.com/lvc/japi-compliance-checker/core/model"

// uncheckedWhitelist is the fixed set of exception roots exempt from the
// throws-clause compatibility check outright — they need not appear in
// either version's class table at all.
var uncheckedWhitelist = map[string]bool{
	"java.lang.RuntimeException": true,
	"java.lang.Error":            true,
}

// isUnchecked classifies an exception type thrown by a method as unchecked
// iff it is in uncheckedWhitelist, or its direct super-class (within v) is
// java.lang.RuntimeException. This is deliberately not a full ancestor
// walk: an exception two levels below RuntimeException with an
// intermediate checked-looking name is misclassified by this narrower
// rule rather than by a looser heuristic.
func isUnchecked(v *model.Version, name string) bool {
	if uncheckedWhitelist[name] {
		return true
	}
	t, ok := v.TypeByName(name)
	if !ok {
		return false
	}
	return t.SuperClass != model.NoType && typeName(v, t.SuperClass) == "java.lang.RuntimeException"
}

// exceptionNameSet resolves a method's Exceptions id set to a name set
// within its owning version.
func exceptionNameSet(v *model.Version, m *model.Method) map[string]bool {
	out := make(map[string]bool, len(m.Exceptions))
	for id := range m.Exceptions {
		out[typeName(v, id)] = true
	}
	return out
}
