package dump

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/pkg/archive"
)

func buildSampleVersion() *model.Version {
	v := model.NewVersion("v1")

	base := v.InternType("com.example.Base")
	base.LockKind(model.KindClass)
	v.MarkConstructible(base.ID)

	iface := v.InternType("com.example.Runnable")
	iface.LockKind(model.KindInterface)

	widget := v.InternType("com.example.Widget")
	widget.LockKind(model.KindClass)
	widget.Access = model.AccessPublic
	widget.SuperClass = base.ID
	widget.SuperInterfaces[iface.ID] = true
	strType := v.InternType("java.lang.String")
	widget.AddField(&model.Field{Name: "name", Type: strType.ID, Access: model.AccessPrivate})
	widget.AddField(&model.Field{Name: "VERSION", Type: strType.ID, Access: model.AccessPublic, Static: true, Final: true, Value: "1.0"})
	v.MarkConstructible(widget.ID)

	m := v.NewMethod(widget.ID)
	m.ShortName = "setName"
	m.Access = model.AccessPublic
	m.Descriptor = "(Ljava/lang/String;)V"
	m.Params = []model.Parameter{{Type: strType.ID}}
	excType := v.InternType("java.lang.IllegalArgumentException")
	m.Exceptions[excType.ID] = true

	return v
}

func TestWriteBytes_ReadBytes_RoundTripsTypesAndMethods(t *testing.T) {
	v := buildSampleVersion()

	data, err := WriteBytes(v)
	if err != nil {
		t.Fatalf("WriteBytes returned an error: %v", err)
	}

	got, err := ReadBytes(data)
	if err != nil {
		t.Fatalf("ReadBytes returned an error: %v", err)
	}

	widget, ok := got.TypeByName("com.example.Widget")
	if !ok {
		t.Fatal("round-tripped version is missing com.example.Widget")
	}
	if widget.Kind != model.KindClass {
		t.Errorf("Kind = %s, want class", widget.Kind)
	}
	if !got.IsConstructible(widget.ID) {
		t.Error("Widget's constructibility flag was not preserved")
	}
	if got.Names.Name(widget.SuperClass) != "com.example.Base" {
		t.Errorf("SuperClass = %q, want com.example.Base", got.Names.Name(widget.SuperClass))
	}

	var sawRunnable bool
	for id := range widget.SuperInterfaces {
		if got.Names.Name(id) == "com.example.Runnable" {
			sawRunnable = true
		}
	}
	if !sawRunnable {
		t.Error("SuperInterfaces did not preserve com.example.Runnable")
	}

	nameField, ok := widget.FieldByName("name")
	if !ok || nameField.Access != model.AccessPrivate {
		t.Errorf("field 'name' = %+v, ok=%v, want private", nameField, ok)
	}
	versionField, ok := widget.FieldByName("VERSION")
	if !ok || versionField.Value != "1.0" || !versionField.IsConstant() {
		t.Errorf("field 'VERSION' = %+v, ok=%v, want constant with value 1.0", versionField, ok)
	}

	methods := got.MethodsOn(widget.ID)
	if len(methods) != 1 {
		t.Fatalf("MethodsOn(Widget) = %d methods, want 1", len(methods))
	}
	m := methods[0]
	if m.ShortName != "setName" || m.Descriptor != "(Ljava/lang/String;)V" {
		t.Errorf("method = %+v, unexpected", m)
	}
	if len(m.Exceptions) != 1 {
		t.Errorf("Exceptions = %d, want 1", len(m.Exceptions))
	}
}

func TestReadBytes_RejectsMismatchedFormatVersion(t *testing.T) {
	v := model.NewVersion("v1")
	c := pack(v)
	c.FormatVersion = FormatVersion + 1

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal returned an error: %v", err)
	}
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write(raw)
	w.Close()

	data, err := archive.WriteTarGz(map[string][]byte{dumpFileName: gz.Bytes()})
	if err != nil {
		t.Fatalf("WriteTarGz returned an error: %v", err)
	}

	_, err = ReadBytes(data)
	var dv *apperr.DumpVersion
	if !errors.As(err, &dv) {
		t.Fatalf("ReadBytes error = %v, want *apperr.DumpVersion", err)
	}
}

func TestReadBytes_RejectsGarbageInput(t *testing.T) {
	if _, err := ReadBytes([]byte("not an archive at all")); err == nil {
		t.Error("ReadBytes should reject input that is neither a valid tar.gz nor zip archive")
	}
}

func TestWriteBytes_ReadBytes_EmptyVersion(t *testing.T) {
	v := model.NewVersion("empty")
	data, err := WriteBytes(v)
	if err != nil {
		t.Fatalf("WriteBytes returned an error: %v", err)
	}
	got, err := ReadBytes(data)
	if err != nil {
		t.Fatalf("ReadBytes returned an error: %v", err)
	}
	if len(got.Types()) != 0 {
		t.Errorf("Types() = %d, want 0 for an empty version", len(got.Types()))
	}
}
