// Package propagate implements the affected-method propagator: for every
// compatibility problem attributed to a type rather than a single method,
// it finds the public methods across the API whose signature reaches that
// type — directly as the declaring class, the return type, or a parameter,
// or indirectly through a chain of exposed fields — so a client calling one
// of them knows it is at risk even though its own signature never changed.
package propagate

import (
	"fmt"
	"sort"

	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
)

// DefaultLimit bounds how many affected methods are recorded per problem,
// capped at a configurable limit per report section.
const DefaultLimit = 100

// maxFieldPathDepth bounds how many field hops the propagator will follow
// looking for the target type inside a mentioned type's field graph. A
// widget field chain that has not reached the target within this many
// hops is treated as not reaching it at all, rather than walking
// arbitrarily deep (or forever, on a cyclic field graph) for a connection
// no caller would realistically notice.
const maxFieldPathDepth = 4

// AffectedMethod is one method propagation found for a problem, together
// with the role its signature exposes the target type through: "this",
// "RetVal", "<n> parameter[ name]", each optionally suffixed with a
// dotted field path when the type is only reachable transitively (e.g.
// "RetVal.engine.serialNumber").
type AffectedMethod struct {
	Method   model.MethodID
	Location string
}

// Affected maps one type-level problem to the methods propagation found
// for it, already capped at Limit and sorted for determinism.
type Affected struct {
	Problem report.Problem
	Methods []AffectedMethod
	// Truncated is true when more matches existed than Limit allowed,
	// so the report can say so instead of silently under-reporting.
	Truncated bool
}

// Propagate scans v for every public method whose declaring class, return
// type, parameters, or a field reachable from one of those mentions a type
// named by a ClassLevel problem in problems, and returns one Affected entry
// per such problem that found at least one affected method.
func Propagate(problems []report.Problem, v *model.Version, limit int) []Affected {
	if limit <= 0 {
		limit = DefaultLimit
	}

	cache := make(map[model.TypeID][]AffectedMethod)

	var out []Affected
	for _, p := range problems {
		if !p.ClassLevel || p.Target == "" {
			continue
		}
		targetT, ok := v.TypeByName(p.Target)
		if !ok {
			continue
		}

		methods, ok := cache[targetT.ID]
		if !ok {
			methods = affectedMethods(v, targetT.ID)
			cache[targetT.ID] = methods
		}
		if len(methods) == 0 {
			continue
		}

		entry := Affected{Problem: p}
		if len(methods) > limit {
			entry.Methods = methods[:limit]
			entry.Truncated = true
		} else {
			entry.Methods = methods
		}
		out = append(out, entry)
	}
	return out
}

// affectedMethods finds every public method in v whose signature reaches
// target, one entry per method carrying the first role locationsFor lists
// (receiver, then return, then parameters), sorted by method id for
// determinism.
func affectedMethods(v *model.Version, target model.TypeID) []AffectedMethod {
	var out []AffectedMethod
	for _, m := range v.Methods() {
		if m.Access != model.AccessPublic {
			continue
		}
		if locs := locationsFor(v, m, target); len(locs) > 0 {
			out = append(out, AffectedMethod{Method: m.ID, Location: locs[0]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// locationsFor lists every role m's signature reaches target through: the
// receiver ("this"), the return type ("RetVal"), and each parameter,
// direct or via a field path off any of those.
func locationsFor(v *model.Version, m *model.Method, target model.TypeID) []string {
	var locs []string

	if loc, ok := roleLocation(v, "this", m.Class, target); ok {
		locs = append(locs, loc)
	}
	if m.Return != model.NoType {
		if loc, ok := roleLocation(v, "RetVal", m.Return, target); ok {
			locs = append(locs, loc)
		}
	}
	for i, param := range m.Params {
		if param.Type == model.NoType {
			continue
		}
		role := fmt.Sprintf("%d parameter", i+1)
		if param.Name != "" {
			role += " " + param.Name
		}
		if loc, ok := roleLocation(v, role, param.Type, target); ok {
			locs = append(locs, loc)
		}
	}
	return locs
}

// roleLocation reports whether target is reachable from from — either
// directly (from == target) or through a bounded chain of exposed
// fields — and if so returns the role string, with a dotted field-path
// suffix in the indirect case.
func roleLocation(v *model.Version, role string, from, target model.TypeID) (string, bool) {
	if from == target {
		return role, true
	}
	path, ok := fieldPathTo(v, from, target, maxFieldPathDepth)
	if !ok {
		return "", false
	}
	return role + "." + path, true
}

// fieldPathTo breadth-first searches from's public and protected fields
// (and their fields, recursively) for target, returning a dot-joined field
// name path bounded to maxDepth hops.
func fieldPathTo(v *model.Version, from, target model.TypeID, maxDepth int) (string, bool) {
	type node struct {
		id   model.TypeID
		path string
	}

	visited := map[model.TypeID]bool{from: true}
	queue := []node{{id: from}}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []node
		for _, n := range queue {
			t := v.Type(n.id)
			if t == nil {
				continue
			}
			for _, f := range t.Fields {
				if f.Access != model.AccessPublic && f.Access != model.AccessProtected {
					continue
				}
				fieldPath := f.Name
				if n.path != "" {
					fieldPath = n.path + "." + f.Name
				}
				if f.Type == target {
					return fieldPath, true
				}
				if visited[f.Type] {
					continue
				}
				visited[f.Type] = true
				next = append(next, node{id: f.Type, path: fieldPath})
			}
		}
		queue = next
	}
	return "", false
}
