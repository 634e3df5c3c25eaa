// Package diff implements the difference detector: given
// two model.Version bundles for the same library, it emits the raw
// report.Problem records the classifier will later assign severities to.
//
// Every comparison in this package works by name, never by TypeID/MethodID
// equality — the two Versions were built from independent Interners, so
// identical ids can denote unrelated types and identical names are the only
// stable cross-version key.
package diff

import "github.com/lvc/japi-compliance-checker/core/model"

// typeName resolves id within v to its fully qualified name, or "" for
// model.NoType (no return slot, or "no declared superclass"). A parsed
// void method's return is the interned type "void", not NoType.
func typeName(v *model.Version, id model.TypeID) string {
	if id == model.NoType {
		return ""
	}
	return v.Names.Name(id)
}

// sigKey is the cross-version method-overload key: short name plus the
// ordered list of parameter type names. Return type is deliberately
// excluded, matching Java overload resolution and letting a matched pair's
// return-type difference surface as its own problem instead of splitting
// the method into two unrelated added/removed entries.
func sigKey(v *model.Version, m *model.Method) string {
	key := m.ShortName + "("
	for i, p := range m.Params {
		if i > 0 {
			key += ","
		}
		key += typeName(v, p.Type)
	}
	return key + ")"
}

// accessRank orders Access from widest to narrowest, used to detect
// narrowing transitions for both fields and methods.
var accessRank = map[model.Access]int{
	model.AccessPublic:    3,
	model.AccessProtected: 2,
	model.AccessPackage:   1,
	model.AccessPrivate:   0,
}

// narrowed reports whether access moved from wider to stricter.
func narrowed(oldAccess, newAccess model.Access) bool {
	return accessRank[newAccess] < accessRank[oldAccess]
}

// comparableAccess reports whether a member at this access level is part
// of the observable API surface: public and protected members are visible
// to external subclassers and callers, package-private and private are
// not, regardless of what the disassembler captured.
func comparableAccess(access model.Access) bool {
	return access == model.AccessPublic || access == model.AccessProtected
}

// superInterfaceNames resolves a type's SuperInterfaces set to a name set.
func superInterfaceNames(v *model.Version, t *model.Type) map[string]bool {
	out := make(map[string]bool, len(t.SuperInterfaces))
	for id := range t.SuperInterfaces {
		out[typeName(v, id)] = true
	}
	return out
}

// isConstantOnlyInterface reports whether an interface declares no methods
// of its own (only constants), used to pick the *_Super_Constant_Interface
// kinds, which are far less disruptive than a behavioral interface addition.
func isConstantOnlyInterface(v *model.Version, t *model.Type) bool {
	if t == nil {
		return false
	}
	return len(v.MethodsOn(t.ID)) == 0
}

// foundOnAncestor reports whether a method with the given sigKey is
// declared on any proper ancestor of cls (not cls itself).
func foundOnAncestor(v *model.Version, cls model.TypeID, key string) bool {
	found := false
	v.WalkSupers(cls, func(id model.TypeID) bool {
		if id == cls {
			return true
		}
		for _, m := range v.MethodsOn(id) {
			if sigKey(v, m) == key {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
