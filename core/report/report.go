package report

import (
	"encoding/json"
	"sort"

	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/propagate"
)

// Report is the final, severity-classified, ceiling-deduplicated output of
// one comparison run, ready for serialization. Field names are chosen for
// the JSON emitter; this engine's Non-goals explicitly exclude HTML
// rendering, so encoding/json is the only emitter in scope and its
// exported-field-driven tagging is reason enough to use it directly rather
// than adopt a third-party encoder for a single, simple struct tree.
type Report struct {
	RunID string `json:"run_id,omitempty"`

	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`

	BinaryCompatible bool `json:"binary_compatible"`
	SourceCompatible bool `json:"source_compatible"`

	Problems []ProblemView `json:"problems"`
	Affected []AffectedView `json:"affected_methods,omitempty"`

	Summary Summary `json:"summary"`
}

// ProblemView is the JSON-facing projection of a Problem: the canonical
// method id string instead of the raw numeric handle, which is only
// meaningful within one process's Interner.
type ProblemView struct {
	Method string `json:"method,omitempty"`
	Kind   Kind   `json:"kind"`

	TypeName string `json:"type_name,omitempty"`
	Target   string `json:"target,omitempty"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`

	ParameterPosition int    `json:"parameter_position,omitempty"`
	ParameterName     string `json:"parameter_name,omitempty"`

	FieldType  string `json:"field_type,omitempty"`
	FieldValue string `json:"field_value,omitempty"`
	AddEffect  string `json:"add_effect,omitempty"`

	BinarySeverity Severity `json:"binary_severity"`
	SourceSeverity Severity `json:"source_severity"`
}

// AffectedView is the JSON-facing projection of a propagate.Affected entry.
type AffectedView struct {
	Kind      Kind                 `json:"kind"`
	Target    string               `json:"target"`
	Methods   []AffectedMethodView `json:"methods"`
	Truncated bool                 `json:"truncated,omitempty"`
}

// AffectedMethodView is the JSON-facing projection of one
// propagate.AffectedMethod: the canonical method id plus the role its
// signature reaches the problem's type through.
type AffectedMethodView struct {
	Method   string `json:"method"`
	Location string `json:"location,omitempty"`
}

// Summary counts problems by severity, separately for the binary and
// source dimensions — the headline numbers the CLI prints.
type Summary struct {
	Binary map[Severity]int `json:"binary"`
	Source map[Severity]int `json:"source"`
}

// NewSummary tallies problems by severity.
func NewSummary(problems []Problem) Summary {
	s := Summary{Binary: map[Severity]int{}, Source: map[Severity]int{}}
	for _, p := range problems {
		s.Binary[p.BinarySeverity]++
		s.Source[p.SourceSeverity]++
	}
	return s
}

// IsBinaryCompatible reports whether no problem reached High binary
// severity — the pass/fail verdict.
func IsBinaryCompatible(problems []Problem) bool {
	for _, p := range problems {
		if p.BinarySeverity == SeverityHigh {
			return false
		}
	}
	return true
}

// IsSourceCompatible is IsBinaryCompatible's source-dimension counterpart.
func IsSourceCompatible(problems []Problem) bool {
	for _, p := range problems {
		if p.SourceSeverity == SeverityHigh {
			return false
		}
	}
	return true
}

// Build assembles a Report from classified problems and canonicalIDs, a
// lookup from MethodID to the method's canonical string (produced by the
// caller, which alone holds both versions' Interners).
func Build(oldLabel, newLabel string, problems []Problem, affected []propagate.Affected, canonicalID func(Problem) string, methodID func(model.MethodID) string) Report {
	sort.Slice(problems, func(i, j int) bool {
		ki, kj := problems[i].CeilingKey(), problems[j].CeilingKey()
		if ki.TypeName != kj.TypeName {
			return ki.TypeName < kj.TypeName
		}
		if ki.Kind != kj.Kind {
			return ki.Kind < kj.Kind
		}
		return ki.Target < kj.Target
	})

	views := make([]ProblemView, 0, len(problems))
	for _, p := range problems {
		var method string
		if !p.ClassLevel {
			method = canonicalID(p)
		}
		views = append(views, ProblemView{
			Method:            method,
			Kind:              p.Kind,
			TypeName:          p.TypeName,
			Target:            p.Target,
			OldValue:          p.OldValue,
			NewValue:          p.NewValue,
			ParameterPosition: p.ParameterPosition,
			ParameterName:     p.ParameterName,
			FieldType:         p.FieldType,
			FieldValue:        p.FieldValue,
			AddEffect:         p.AddEffect,
			BinarySeverity:    p.BinarySeverity,
			SourceSeverity:    p.SourceSeverity,
		})
	}

	affViews := make([]AffectedView, 0, len(affected))
	for _, a := range affected {
		methods := make([]AffectedMethodView, len(a.Methods))
		for i, am := range a.Methods {
			methods[i] = AffectedMethodView{Method: methodID(am.Method), Location: am.Location}
		}
		affViews = append(affViews, AffectedView{
			Kind:      a.Problem.Kind,
			Target:    a.Problem.Target,
			Methods:   methods,
			Truncated: a.Truncated,
		})
	}

	return Report{
		OldVersion:       oldLabel,
		NewVersion:       newLabel,
		BinaryCompatible: IsBinaryCompatible(problems),
		SourceCompatible: IsSourceCompatible(problems),
		Problems:         views,
		Affected:         affViews,
		Summary:          NewSummary(problems),
	}
}

// ToJSON renders the report as indented JSON.
func (r Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
