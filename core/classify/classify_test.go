package classify

import (
	"testing"

	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

func TestClassify_AssignsBothSeverities(t *testing.T) {
	problems := []report.Problem{{Kind: report.KindRemovedMethod, Target: "com.example.Widget"}}
	Classify(problems, nil, nil, Mode{})
	if problems[0].BinarySeverity != report.SeverityHigh {
		t.Errorf("BinarySeverity = %s, want High", problems[0].BinarySeverity)
	}
	if problems[0].SourceSeverity != report.SeverityHigh {
		t.Errorf("SourceSeverity = %s, want High", problems[0].SourceSeverity)
	}
}

func TestClassify_NoCallerDowngradeToSafe(t *testing.T) {
	problems := []report.Problem{{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget"}}
	tables := usage.NewTables()
	Classify(problems, nil, tables, Mode{})
	if problems[0].BinarySeverity != report.SeveritySafe {
		t.Errorf("BinarySeverity = %s, want Safe when there are no recorded callers", problems[0].BinarySeverity)
	}
	if problems[0].SourceSeverity != report.SeverityHigh {
		t.Errorf("SourceSeverity = %s, want High regardless of callers", problems[0].SourceSeverity)
	}
}

func TestClassify_NoCallerDowngradeToLowUnderQuick(t *testing.T) {
	problems := []report.Problem{{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget"}}
	tables := usage.NewTables()
	Classify(problems, nil, tables, Mode{Quick: true})
	if problems[0].BinarySeverity != report.SeverityLow {
		t.Errorf("BinarySeverity = %s, want Low under quick mode", problems[0].BinarySeverity)
	}
}

func TestClassify_NoDowngradeWhenCallerExists(t *testing.T) {
	newV := model.NewVersion("v2")
	widget := newV.InternType("com.example.Widget")
	widget.LockKind(model.KindClass)
	m := newV.NewMethod(widget.ID)
	m.ShortName = "act"
	m.Descriptor = "()V"

	problems := []report.Problem{{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget", MethodID: m.ID}}
	tables := usage.NewTables()
	tables.RecordInvocation("com/example/Widget.act:()V", 1, "com.example.Widget", "act", false)
	Classify(problems, newV, tables, Mode{})
	if problems[0].BinarySeverity != report.SeverityMedium {
		t.Errorf("BinarySeverity = %s, want the undowngraded table value Medium", problems[0].BinarySeverity)
	}
}

func TestClassify_NoDowngradeWhenCallerExistsForThatMethodOnly(t *testing.T) {
	newV := model.NewVersion("v2")
	widget := newV.InternType("com.example.Widget")
	widget.LockKind(model.KindClass)
	called := newV.NewMethod(widget.ID)
	called.ShortName = "act"
	called.Descriptor = "()V"
	uncalled := newV.NewMethod(widget.ID)
	uncalled.ShortName = "rest"
	uncalled.Descriptor = "()V"

	problems := []report.Problem{
		{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget", MethodID: called.ID},
		{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget", MethodID: uncalled.ID},
	}
	tables := usage.NewTables()
	tables.RecordInvocation("com/example/Widget.act:()V", 1, "com.example.Widget", "act", false)
	Classify(problems, newV, tables, Mode{})

	if problems[0].BinarySeverity != report.SeverityMedium {
		t.Errorf("called method BinarySeverity = %s, want the undowngraded table value Medium", problems[0].BinarySeverity)
	}
	if problems[1].BinarySeverity != report.SeveritySafe {
		t.Errorf("uncalled method BinarySeverity = %s, want Safe even though a sibling method on the same class has a caller", problems[1].BinarySeverity)
	}
}

func TestClassify_NoDowngradeWhenKindNotInOverrideSet(t *testing.T) {
	problems := []report.Problem{{Kind: report.KindRemovedMethod, Target: "com.example.Widget"}}
	tables := usage.NewTables()
	Classify(problems, nil, tables, Mode{})
	if problems[0].BinarySeverity != report.SeverityHigh {
		t.Errorf("Removed_Method is not in the no-caller override set, BinarySeverity = %s, want High", problems[0].BinarySeverity)
	}
}

func TestClassify_VersionFieldNameExemption(t *testing.T) {
	tests := []struct {
		name string
		want report.Severity
	}{
		{"VERSION", report.SeverityLow},
		{"VerNum", report.SeverityLow},
		{"version", report.SeverityLow},
		{"BUILD_NUMBER", report.SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := []report.Problem{{Kind: report.KindChangedFinalFieldValue, Target: tt.name}}
			Classify(problems, nil, nil, Mode{})
			if problems[0].BinarySeverity != tt.want {
				t.Errorf("BinarySeverity for field %q = %s, want %s", tt.name, problems[0].BinarySeverity, tt.want)
			}
		})
	}
}

func TestClassify_NilTablesSkipsDowngrade(t *testing.T) {
	problems := []report.Problem{{Kind: report.KindInterfaceAddedAbstractMethod, Target: "com.example.Widget"}}
	Classify(problems, nil, nil, Mode{})
	if problems[0].BinarySeverity != report.SeverityMedium {
		t.Errorf("BinarySeverity with nil tables = %s, want the undowngraded table value Medium", problems[0].BinarySeverity)
	}
}

func TestEverySeverityTableCoversEveryKind(t *testing.T) {
	for k := range binaryTable {
		if _, ok := sourceTable[k]; !ok {
			t.Errorf("kind %s has a binaryTable entry but no sourceTable entry", k)
		}
	}
	for k := range sourceTable {
		if _, ok := binaryTable[k]; !ok {
			t.Errorf("kind %s has a sourceTable entry but no binaryTable entry", k)
		}
	}
}

func TestLookup_PanicsOnMissingKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("lookup did not panic on an unmapped kind")
		}
	}()
	lookup(binaryTable, report.Kind("Not_A_Real_Kind"))
}

func TestCeiling_DedupesByCeilingKeyKeepingMax(t *testing.T) {
	problems := []report.Problem{
		{TypeName: "com.example.Widget", Kind: report.KindRemovedMethod, Target: "com.example.Widget", BinarySeverity: report.SeverityLow, SourceSeverity: report.SeverityLow},
		{TypeName: "com.example.Widget", Kind: report.KindRemovedMethod, Target: "com.example.Widget", BinarySeverity: report.SeverityHigh, SourceSeverity: report.SeverityMedium},
		{TypeName: "com.example.Gadget", Kind: report.KindAddedMethod, Target: "com.example.Gadget", BinarySeverity: report.SeveritySafe, SourceSeverity: report.SeveritySafe},
	}
	out := Ceiling(problems)
	if len(out) != 2 {
		t.Fatalf("Ceiling produced %d entries, want 2", len(out))
	}
	if out[0].BinarySeverity != report.SeverityHigh || out[0].SourceSeverity != report.SeverityMedium {
		t.Errorf("merged entry severities = %s/%s, want High/Medium", out[0].BinarySeverity, out[0].SourceSeverity)
	}
}

func TestCeiling_PreservesFirstSeenOrder(t *testing.T) {
	problems := []report.Problem{
		{TypeName: "B", Kind: report.KindAddedMethod, Target: "B"},
		{TypeName: "A", Kind: report.KindAddedMethod, Target: "A"},
		{TypeName: "B", Kind: report.KindAddedMethod, Target: "B"},
	}
	out := Ceiling(problems)
	if len(out) != 2 || out[0].TypeName != "B" || out[1].TypeName != "A" {
		t.Fatalf("Ceiling order = %+v, want [B, A]", out)
	}
}
