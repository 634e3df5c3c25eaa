package disasm

import (
	"errors"
	"testing"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

const widgetDisasm = `public class com.example.Widget extends com.example.Base implements com.example.Runnable {
  public Widget(java.lang.String);
    descriptor: (Ljava/lang/String;)V
    LocalVariableTable:
      0      10     0  this   Lcom/example/Widget;
      0      10     1  label  Ljava/lang/String;

  public void setName(java.lang.String) throws java.lang.IllegalArgumentException;
    descriptor: (Ljava/lang/String;)V
    Code:
      0: aload_0
      1: invokevirtual #4  // Method com/example/Base.touch:()V
      4: return
    LineNumberTable:

  private java.lang.String name;

  public static final java.lang.String VERSION;
    Constant value: String "1.0"

  public void legacyNoop();
    descriptor: ()V
    Code:
      0: aload_0
      1: invokevirtual #5  // Method com/example/Widget.setName:(Ljava/lang/String;)V
      4: return
    LineNumberTable:
    Deprecated: true
}
`

func buildWidget(t *testing.T, opts Options) (*model.Version, *usage.Tables, *model.Type) {
	t.Helper()
	v := model.NewVersion("v1")
	tables := usage.NewTables()
	p := NewParser(v, tables, "widget.jar", opts)
	if err := p.ParseText(widgetDisasm); err != nil {
		t.Fatalf("ParseText returned an error: %v", err)
	}
	widget, ok := v.TypeByName("com.example.Widget")
	if !ok {
		t.Fatal("parsed version is missing com.example.Widget")
	}
	return v, tables, widget
}

func TestParseText_TypeDeclarationAndHierarchy(t *testing.T) {
	v, _, widget := buildWidget(t, Options{})

	if widget.Kind != model.KindClass {
		t.Errorf("Kind = %s, want class", widget.Kind)
	}
	if widget.Access != model.AccessPublic {
		t.Errorf("Access = %s, want public", widget.Access)
	}
	if widget.Archive != "widget.jar" {
		t.Errorf("Archive = %q, want widget.jar", widget.Archive)
	}
	if v.Names.Name(widget.SuperClass) != "com.example.Base" {
		t.Errorf("SuperClass = %q, want com.example.Base", v.Names.Name(widget.SuperClass))
	}
	var sawRunnable bool
	for id := range widget.SuperInterfaces {
		if v.Names.Name(id) == "com.example.Runnable" {
			sawRunnable = true
		}
	}
	if !sawRunnable {
		t.Error("SuperInterfaces did not record com.example.Runnable")
	}
}

func TestParseText_ImplicitObjectSuperclassIsNotInterned(t *testing.T) {
	v := model.NewVersion("v1")
	p := NewParser(v, usage.NewTables(), "a.jar", Options{})
	if err := p.ParseText("public class com.example.Standalone extends java.lang.Object {\n}\n"); err != nil {
		t.Fatalf("ParseText returned an error: %v", err)
	}
	typ, ok := v.TypeByName("com.example.Standalone")
	if !ok {
		t.Fatal("missing com.example.Standalone")
	}
	if typ.SuperClass != model.NoType {
		t.Errorf("SuperClass = %v, want NoType for an explicit java.lang.Object extends clause", typ.SuperClass)
	}
}

func TestParseText_ConstructorDetectedAndMarksConstructible(t *testing.T) {
	v, _, widget := buildWidget(t, Options{})

	methods := v.MethodsOn(widget.ID)
	var ctor *model.Method
	for _, m := range methods {
		if m.Constructor {
			ctor = m
		}
	}
	if ctor == nil {
		t.Fatal("no constructor method was recorded")
	}
	if ctor.Return != model.NoType {
		t.Errorf("constructor Return = %v, want NoType", ctor.Return)
	}
	if !v.IsConstructible(widget.ID) {
		t.Error("Widget should be marked constructible after a public constructor is parsed")
	}
}

func TestParseText_MethodWithThrowsAndParams(t *testing.T) {
	v, _, widget := buildWidget(t, Options{})

	var setName *model.Method
	for _, m := range v.MethodsOn(widget.ID) {
		if m.ShortName == "setName" {
			setName = m
		}
	}
	if setName == nil {
		t.Fatal("setName method was not recorded")
	}
	if setName.Descriptor != "(Ljava/lang/String;)V" {
		t.Errorf("Descriptor = %q, want (Ljava/lang/String;)V", setName.Descriptor)
	}
	if len(setName.Params) != 1 {
		t.Fatalf("Params = %d, want 1", len(setName.Params))
	}
	if v.Names.Name(setName.Params[0].Type) != "java.lang.String" {
		t.Errorf("param type = %q, want java.lang.String", v.Names.Name(setName.Params[0].Type))
	}
	if len(setName.Exceptions) != 1 {
		t.Fatalf("Exceptions = %d, want 1", len(setName.Exceptions))
	}
	var sawException bool
	for id := range setName.Exceptions {
		if v.Names.Name(id) == "java.lang.IllegalArgumentException" {
			sawException = true
		}
	}
	if !sawException {
		t.Error("Exceptions did not record java.lang.IllegalArgumentException")
	}
	if setName.Deprecated {
		t.Error("setName should not be deprecated")
	}
}

func TestParseText_VoidReturnIsInternedNotNoType(t *testing.T) {
	v, _, widget := buildWidget(t, Options{})

	var legacyNoop *model.Method
	for _, m := range v.MethodsOn(widget.ID) {
		if m.ShortName == "legacyNoop" {
			legacyNoop = m
		}
	}
	if legacyNoop == nil {
		t.Fatal("legacyNoop method was not recorded")
	}
	if legacyNoop.Return == model.NoType {
		t.Error("a declared void return type should be interned, not left as NoType")
	}
	if v.Names.Name(legacyNoop.Return) != "void" {
		t.Errorf("Return type name = %q, want void", v.Names.Name(legacyNoop.Return))
	}
	if !legacyNoop.Deprecated {
		t.Error("legacyNoop should be marked deprecated")
	}
}

func TestParseText_FieldsIncludingConstant(t *testing.T) {
	_, _, widget := buildWidget(t, Options{})

	nameField, ok := widget.FieldByName("name")
	if !ok {
		t.Fatal("field 'name' was not recorded")
	}
	if nameField.Access != model.AccessPrivate {
		t.Errorf("name.Access = %s, want private", nameField.Access)
	}
	if nameField.IsConstant() {
		t.Error("name should not be constant")
	}

	versionField, ok := widget.FieldByName("VERSION")
	if !ok {
		t.Fatal("field 'VERSION' was not recorded")
	}
	if !versionField.Static || !versionField.Final {
		t.Error("VERSION should be static and final")
	}
	if versionField.Value != `"1.0"` {
		t.Errorf("VERSION.Value = %q, want %q", versionField.Value, `"1.0"`)
	}
	if !versionField.IsConstant() {
		t.Error("VERSION should be constant")
	}
}

func TestParseText_LocalVariableTableRecoversParamNames(t *testing.T) {
	v, _, widget := buildWidget(t, Options{})

	var ctor *model.Method
	for _, m := range v.MethodsOn(widget.ID) {
		if m.Constructor {
			ctor = m
		}
	}
	if ctor == nil {
		t.Fatal("no constructor method was recorded")
	}
	if len(ctor.Params) != 1 {
		t.Fatalf("constructor Params = %d, want 1", len(ctor.Params))
	}
	if ctor.Params[0].Name != "label" {
		t.Errorf("constructor param name = %q, want label (slot 1, after skipping synthetic this)", ctor.Params[0].Name)
	}
}

func TestParseText_QuickModeSkipsParamNameRecovery(t *testing.T) {
	v, _, widget := buildWidget(t, Options{Quick: true})

	var ctor *model.Method
	for _, m := range v.MethodsOn(widget.ID) {
		if m.Constructor {
			ctor = m
		}
	}
	if ctor == nil {
		t.Fatal("no constructor method was recorded")
	}
	if ctor.Params[0].Name != "" {
		t.Errorf("constructor param name = %q, want empty under quick mode", ctor.Params[0].Name)
	}
}

func TestParseText_InvokeRecordsAddedInvocationWhenNotDeclaredDirectly(t *testing.T) {
	_, tables, _ := buildWidget(t, Options{})

	descriptor := "com/example/Base.touch:()V"
	if !tables.HasCaller(descriptor) {
		t.Fatal("InvokedBy should contain the setName->Base.touch invocation")
	}
	if !tables.HasAddedInvocations("com.example.Base") {
		t.Error("Base.touch should be recorded as an added invocation since Base has no declared methods in this version")
	}
}

func TestParseText_InvokeOnDirectlyDeclaredMethodSkipsAddedTable(t *testing.T) {
	_, tables, _ := buildWidget(t, Options{})

	descriptor := "com/example/Widget.setName:(Ljava/lang/String;)V"
	if !tables.HasCaller(descriptor) {
		t.Fatal("InvokedBy should contain the legacyNoop->Widget.setName invocation")
	}
	if tables.HasAddedInvocations("com.example.Widget") {
		t.Error("setName is declared directly on Widget in this version, so it should not populate AddedInvokedByClass")
	}
}

func TestParseText_IgnoredInvocationsAreNotRecorded(t *testing.T) {
	text := `public class com.example.Caller {
  public void run();
    descriptor: ()V
    Code:
      0: new #2  // class java/lang/Object
      3: invokespecial #3  // Method java/lang/Object.<init>:()V
      6: invokevirtual #4  // Method java/lang/String.valueOf:(I)Ljava/lang/String;
      9: return
    LineNumberTable:
}
`
	v := model.NewVersion("v1")
	tables := usage.NewTables()
	p := NewParser(v, tables, "caller.jar", Options{})
	if err := p.ParseText(text); err != nil {
		t.Fatalf("ParseText returned an error: %v", err)
	}
	if len(tables.InvokedBy) != 0 {
		t.Errorf("InvokedBy = %v, want empty since both targets are filtered", tables.InvokedBy)
	}
}

func TestParseText_TypeLevelDeprecatedWhenNoMethodIsOpen(t *testing.T) {
	v := model.NewVersion("v1")
	p := NewParser(v, usage.NewTables(), "old.jar", Options{})
	text := "public class com.example.Old {\n  Deprecated: true\n}\n"
	if err := p.ParseText(text); err != nil {
		t.Fatalf("ParseText returned an error: %v", err)
	}
	old, ok := v.TypeByName("com.example.Old")
	if !ok {
		t.Fatal("missing com.example.Old")
	}
	if !old.Deprecated {
		t.Error("com.example.Old should be marked deprecated")
	}
}

func TestParseText_AnnotationsRecordedOnOpenScope(t *testing.T) {
	text := `public class com.example.Annotated {
  RuntimeVisibleAnnotations:
    0: #7()  // com.example.Experimental
  public void run();
    descriptor: ()V
    RuntimeVisibleAnnotations:
      0: #9()  // com.example.Experimental
}
`
	v := model.NewVersion("v1")
	p := NewParser(v, usage.NewTables(), "a.jar", Options{})
	if err := p.ParseText(text); err != nil {
		t.Fatalf("ParseText returned an error: %v", err)
	}
	typ, ok := v.TypeByName("com.example.Annotated")
	if !ok {
		t.Fatal("missing com.example.Annotated")
	}
	var typeHasAnnotation, methodHasAnnotation bool
	for id := range typ.Annotations {
		if v.Names.Name(id) == "com.example.Experimental" {
			typeHasAnnotation = true
		}
	}
	if !typeHasAnnotation {
		t.Error("type-level annotation was not recorded")
	}
	var run *model.Method
	for _, m := range v.MethodsOn(typ.ID) {
		if m.ShortName == "run" {
			run = m
		}
	}
	if run == nil {
		t.Fatal("run method was not recorded")
	}
	for id := range run.Annotations {
		if v.Names.Name(id) == "com.example.Experimental" {
			methodHasAnnotation = true
		}
	}
	if !methodHasAnnotation {
		t.Error("method-level annotation was not recorded")
	}
}

func TestStartMethod_MissingDescriptorLineIsInternalError(t *testing.T) {
	text := `public class com.example.Bad {
  public void broken();
    LineNumberTable:
}
`
	v := model.NewVersion("v1")
	p := NewParser(v, usage.NewTables(), "bad.jar", Options{})
	err := p.ParseText(text)
	var ie *apperr.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("ParseText error = %v, want *apperr.InternalError", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    state
		want string
	}{
		{stateTop, "Top"},
		{stateInType, "InType"},
		{stateInMethod, "InMethod"},
		{stateInParamTable, "InParamTable"},
		{stateInCode, "InCode"},
		{stateInAnnotations, "InAnnotations"},
		{state(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("state(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestAccessFromMods(t *testing.T) {
	tests := []struct {
		mods map[string]bool
		want model.Access
	}{
		{map[string]bool{"public": true}, model.AccessPublic},
		{map[string]bool{"protected": true}, model.AccessProtected},
		{map[string]bool{"private": true}, model.AccessPrivate},
		{map[string]bool{"static": true}, model.AccessPackage},
		{map[string]bool{}, model.AccessPackage},
	}
	for _, tt := range tests {
		if got := accessFromMods(tt.mods); got != tt.want {
			t.Errorf("accessFromMods(%v) = %s, want %s", tt.mods, got, tt.want)
		}
	}
}

func TestQualify(t *testing.T) {
	tests := []struct {
		pkg, name, want string
	}{
		{"", "Widget", "Widget"},
		{"com.example", "Widget", "com.example.Widget"},
		{"com.example", "com.example.Widget", "com.example.Widget"},
	}
	for _, tt := range tests {
		if got := qualify(tt.pkg, tt.name); got != tt.want {
			t.Errorf("qualify(%q, %q) = %q, want %q", tt.pkg, tt.name, got, tt.want)
		}
	}
}

func TestStripGenericParams(t *testing.T) {
	tests := []struct{ in, want string }{
		{"T extends java.lang.Object & java.io.Serializable", "T"},
		{"T super java.lang.Number", "T"},
		{"java.lang.String", "java.lang.String"},
	}
	for _, tt := range tests {
		if got := stripGenericParams(tt.in); got != tt.want {
			t.Errorf("stripGenericParams(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripGenericSuffix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"java.util.List<java.lang.String>", "java.util.List"},
		{"java.util.Map<java.lang.String,java.util.List<java.lang.Integer>>", "java.util.Map"},
		{"java.lang.String", "java.lang.String"},
	}
	for _, tt := range tests {
		if got := stripGenericSuffix(tt.in); got != tt.want {
			t.Errorf("stripGenericSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitGenericList(t *testing.T) {
	got := splitGenericList("java.util.Map<java.lang.String,java.lang.Integer>, T")
	want := []string{"java.util.Map<java.lang.String,java.lang.Integer>", "T"}
	if len(got) != len(want) {
		t.Fatalf("splitGenericList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitGenericList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitGenericList_Empty(t *testing.T) {
	if got := splitGenericList(""); got != nil {
		t.Errorf("splitGenericList(\"\") = %v, want nil", got)
	}
}

func TestIsSyntheticName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"access$100", true},
		{"class$0", true},
		{"lambda$run$0", true},
		{"this$0", true},
		{"val$counter", true},
		{"bridge$0", true},
		{"setName", false},
		{"VERSION", false},
	}
	for _, tt := range tests {
		if got := IsSyntheticName(tt.name); got != tt.want {
			t.Errorf("IsSyntheticName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsAnonymousOrLocalClassName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Widget$1", true},
		{"Outer$Inner", false},
		{"Widget", false},
	}
	for _, tt := range tests {
		if got := IsAnonymousOrLocalClassName(tt.name); got != tt.want {
			t.Errorf("IsAnonymousOrLocalClassName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
