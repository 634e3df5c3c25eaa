package propagate

import (
	"testing"

	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
)

func buildVersionWithMethodsMentioning(widgetUses int) (*model.Version, model.TypeID) {
	v := model.NewVersion("v1")
	widget := v.InternType("com.example.Widget")
	str := v.InternType("java.lang.String")
	for i := 0; i < widgetUses; i++ {
		m := v.NewMethod(widget.ID)
		m.ShortName = "use"
		m.Access = model.AccessPublic
		m.Return = widget.ID
		m.Params = []model.Parameter{{Type: str.ID}}
	}
	return v, widget.ID
}

func TestPropagate_FindsMethodsMentioningTheTargetType(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(3)
	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}

	affected := Propagate(problems, v, 0)
	if len(affected) != 1 {
		t.Fatalf("Propagate returned %d entries, want 1", len(affected))
	}
	if len(affected[0].Methods) != 3 {
		t.Fatalf("Methods = %d, want 3", len(affected[0].Methods))
	}
	if affected[0].Truncated {
		t.Error("Truncated should be false when under the limit")
	}
}

func TestPropagate_SkipsNonClassLevelProblems(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(2)
	problems := []report.Problem{{ClassLevel: false, Target: "com.example.Widget", Kind: report.KindRemovedMethod}}

	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate returned %d entries for a non-ClassLevel problem, want 0", len(affected))
	}
}

func TestPropagate_SkipsEmptyTarget(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(2)
	problems := []report.Problem{{ClassLevel: true, Target: "", Kind: report.KindClassBecameInterface}}

	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate returned %d entries for an empty target, want 0", len(affected))
	}
}

func TestPropagate_SkipsUnknownTarget(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(2)
	problems := []report.Problem{{ClassLevel: true, Target: "com.example.NeverSeen", Kind: report.KindClassBecameInterface}}

	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate returned %d entries for a target never interned, want 0", len(affected))
	}
}

func TestPropagate_SkipsTypeWithNoMatchingMethods(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(0)
	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}

	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate returned %d entries when no method mentions the target, want 0", len(affected))
	}
}

func TestPropagate_SkipsNonPublicMethods(t *testing.T) {
	v := model.NewVersion("v1")
	widget := v.InternType("com.example.Widget")
	m := v.NewMethod(widget.ID)
	m.ShortName = "use"
	m.Access = model.AccessProtected
	m.Return = widget.ID

	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}
	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate returned %d entries for a protected-only method, want 0 (public methods only)", len(affected))
	}
}

func TestPropagate_TruncatesAtLimitAndFlags(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(5)
	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}

	affected := Propagate(problems, v, 2)
	if len(affected[0].Methods) != 2 {
		t.Fatalf("Methods = %d, want capped at 2", len(affected[0].Methods))
	}
	if !affected[0].Truncated {
		t.Error("Truncated should be true when matches exceed the limit")
	}
}

func TestPropagate_MethodsAreSortedByID(t *testing.T) {
	v, _ := buildVersionWithMethodsMentioning(4)
	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}

	affected := Propagate(problems, v, 0)
	ids := affected[0].Methods
	for i := 1; i < len(ids); i++ {
		if ids[i].Method < ids[i-1].Method {
			t.Fatalf("Methods not sorted: %+v", ids)
		}
	}
}

func TestPropagate_RoleCoversReceiverReturnAndParameter(t *testing.T) {
	v := model.NewVersion("v1")
	widget := v.InternType("com.example.Widget")
	other := v.InternType("com.example.Other")

	onClass := v.NewMethod(widget.ID)
	onClass.ShortName = "act"
	onClass.Access = model.AccessPublic

	returns := v.NewMethod(other.ID)
	returns.ShortName = "make"
	returns.Access = model.AccessPublic
	returns.Return = widget.ID

	takes := v.NewMethod(other.ID)
	takes.ShortName = "consume"
	takes.Access = model.AccessPublic
	takes.Params = []model.Parameter{{Type: widget.ID, Name: "w"}}

	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}
	affected := Propagate(problems, v, 0)
	if len(affected) != 1 {
		t.Fatalf("Propagate returned %d entries, want 1", len(affected))
	}

	byMethod := make(map[model.MethodID]string)
	for _, am := range affected[0].Methods {
		byMethod[am.Method] = am.Location
	}
	if byMethod[onClass.ID] != "this" {
		t.Errorf("receiver location = %q, want this", byMethod[onClass.ID])
	}
	if byMethod[returns.ID] != "RetVal" {
		t.Errorf("return location = %q, want RetVal", byMethod[returns.ID])
	}
	if byMethod[takes.ID] != "1 parameter w" {
		t.Errorf("parameter location = %q, want %q", byMethod[takes.ID], "1 parameter w")
	}
}

func TestPropagate_FindsTypeReachedThroughAField(t *testing.T) {
	v := model.NewVersion("v1")
	widget := v.InternType("com.example.Widget")
	holder := v.InternType("com.example.Holder")
	holder.LockKind(model.KindClass)
	holder.AddField(&model.Field{Name: "widget", Type: widget.ID, Access: model.AccessPublic})

	other := v.InternType("com.example.Other")
	m := v.NewMethod(other.ID)
	m.ShortName = "give"
	m.Access = model.AccessPublic
	m.Return = holder.ID

	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}
	affected := Propagate(problems, v, 0)
	if len(affected) != 1 || len(affected[0].Methods) != 1 {
		t.Fatalf("Propagate = %+v, want one method reached through Holder.widget", affected)
	}
	if got := affected[0].Methods[0].Location; got != "RetVal.widget" {
		t.Errorf("Location = %q, want RetVal.widget", got)
	}
}

func TestPropagate_IgnoresPrivateFieldsWhenSearchingForAPath(t *testing.T) {
	v := model.NewVersion("v1")
	widget := v.InternType("com.example.Widget")
	holder := v.InternType("com.example.Holder")
	holder.LockKind(model.KindClass)
	holder.AddField(&model.Field{Name: "widget", Type: widget.ID, Access: model.AccessPrivate})

	other := v.InternType("com.example.Other")
	m := v.NewMethod(other.ID)
	m.ShortName = "give"
	m.Access = model.AccessPublic
	m.Return = holder.ID

	problems := []report.Problem{{ClassLevel: true, Target: "com.example.Widget", Kind: report.KindClassBecameInterface}}
	if affected := Propagate(problems, v, 0); len(affected) != 0 {
		t.Fatalf("Propagate = %+v, want no match through a private field", affected)
	}
}

func TestFieldPathTo_RespectsMaxDepth(t *testing.T) {
	v := model.NewVersion("v1")
	target := v.InternType("com.example.Target")

	chain := make([]*model.Type, maxFieldPathDepth+1)
	for i := range chain {
		t := v.InternType("com.example.Link" + string(rune('A'+i)))
		t.LockKind(model.KindClass)
		chain[i] = t
	}
	for i := 0; i < len(chain)-1; i++ {
		chain[i].AddField(&model.Field{Name: "next", Type: chain[i+1].ID, Access: model.AccessPublic})
	}
	chain[len(chain)-1].AddField(&model.Field{Name: "target", Type: target.ID, Access: model.AccessPublic})

	if _, ok := fieldPathTo(v, chain[0].ID, target.ID, maxFieldPathDepth); ok {
		t.Error("fieldPathTo found a path longer than maxFieldPathDepth")
	}
	if _, ok := fieldPathTo(v, chain[0].ID, target.ID, maxFieldPathDepth+1); !ok {
		t.Error("fieldPathTo should find the path when given one more hop of budget")
	}
}
