// Package dump implements the versioned API dump container: a
// JSON-encoded, gzip-compressed snapshot of one model.Version, wrapped in
// a zip or tar.gz archive by pkg/archive so a comparison can be re-run
// later without re-disassembling the original class archives.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/pkg/archive"
)

// FormatVersion is the dump container's major format version. A dump whose
// FormatVersion differs from this value is rejected outright as a
// major-version mismatch, rather than attempting a best-effort partial read.
const FormatVersion = 1

// dumpFileName is the single entry every dump archive wraps.
const dumpFileName = "dump.json.gz"

// container is the JSON-serializable snapshot of a model.Version.
type container struct {
	FormatVersion int `json:"format_version"`
	Label         string `json:"label"`

	Types   []typeRecord   `json:"types"`
	Methods []methodRecord `json:"methods"`
}

type typeRecord struct {
	Name            string         `json:"name"`
	Kind            model.Kind     `json:"kind"`
	Package         string         `json:"package"`
	Archive         string         `json:"archive"`
	Access          model.Access   `json:"access"`
	Abstract        bool           `json:"abstract"`
	Final           bool           `json:"final"`
	Static          bool           `json:"static"`
	Annotation      bool           `json:"annotation"`
	SuperClass      string         `json:"super_class,omitempty"`
	SuperInterfaces []string       `json:"super_interfaces,omitempty"`
	Fields          []fieldRecord  `json:"fields,omitempty"`
	Constructible   bool           `json:"constructible"`
}

type fieldRecord struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Access    model.Access `json:"access"`
	Final     bool         `json:"final"`
	Static    bool         `json:"static"`
	Transient bool         `json:"transient"`
	Volatile  bool         `json:"volatile"`
	Position  int          `json:"position"`
	Value     string       `json:"value,omitempty"`
}

type methodRecord struct {
	Class      string       `json:"class"`
	ShortName  string       `json:"short_name"`
	Return     string       `json:"return,omitempty"`
	Params     []string     `json:"params,omitempty"`
	Exceptions []string     `json:"exceptions,omitempty"`
	Access     model.Access `json:"access"`
	Abstract   bool         `json:"abstract"`
	Final      bool         `json:"final"`
	Static     bool         `json:"static"`
	Native     bool         `json:"native"`
	Synchronized bool       `json:"synchronized"`
	Constructor  bool       `json:"constructor"`
	Descriptor   string     `json:"descriptor"`
	Archive      string     `json:"archive"`
}

// pack flattens v into the container that WriteBytes marshals to JSON.
func pack(v *model.Version) container {
	c := container{FormatVersion: FormatVersion, Label: v.Label}

	for _, t := range v.Types() {
		rec := typeRecord{
			Name:          t.Name,
			Kind:          t.Kind,
			Package:       t.Package,
			Archive:       t.Archive,
			Access:        t.Access,
			Abstract:      t.Abstract,
			Final:         t.Final,
			Static:        t.Static,
			Annotation:    t.Annotation,
			Constructible: v.IsConstructible(t.ID),
		}
		if t.SuperClass != model.NoType {
			rec.SuperClass = v.Names.Name(t.SuperClass)
		}
		for id := range t.SuperInterfaces {
			rec.SuperInterfaces = append(rec.SuperInterfaces, v.Names.Name(id))
		}
		for _, f := range t.Fields {
			rec.Fields = append(rec.Fields, fieldRecord{
				Name: f.Name, Type: v.Names.Name(f.Type), Access: f.Access,
				Final: f.Final, Static: f.Static, Transient: f.Transient,
				Volatile: f.Volatile, Position: f.Position, Value: f.Value,
			})
		}
		c.Types = append(c.Types, rec)
	}

	for _, m := range v.Methods() {
		rec := methodRecord{
			Class: v.Names.Name(m.Class), ShortName: m.ShortName,
			Access: m.Access, Abstract: m.Abstract, Final: m.Final,
			Static: m.Static, Native: m.Native, Synchronized: m.Synchronized,
			Constructor: m.Constructor, Descriptor: m.Descriptor, Archive: m.Archive,
		}
		if m.Return != model.NoType {
			rec.Return = v.Names.Name(m.Return)
		}
		for _, p := range m.Params {
			rec.Params = append(rec.Params, v.Names.Name(p.Type))
		}
		for id := range m.Exceptions {
			rec.Exceptions = append(rec.Exceptions, v.Names.Name(id))
		}
		c.Methods = append(c.Methods, rec)
	}

	return c
}

// unpack reconstructs a model.Version from c. Types are created in two
// passes so forward-referenced super-classes/interfaces resolve correctly
// regardless of declaration order in the JSON array.
func unpack(c container) *model.Version {
	v := model.NewVersion(c.Label)

	for _, rec := range c.Types {
		t := v.InternType(rec.Name)
		t.LockKind(rec.Kind)
		t.Package = rec.Package
		t.Archive = rec.Archive
		t.Modifiers = model.Modifiers{
			Access: rec.Access, Abstract: rec.Abstract, Final: rec.Final,
			Static: rec.Static, Annotation: rec.Annotation,
		}
		if rec.Constructible {
			v.MarkConstructible(t.ID)
		}
	}
	for _, rec := range c.Types {
		t, _ := v.TypeByName(rec.Name)
		if rec.SuperClass != "" {
			t.SuperClass = v.InternType(rec.SuperClass).ID
		}
		for _, iface := range rec.SuperInterfaces {
			t.SuperInterfaces[v.InternType(iface).ID] = true
		}
		for _, fr := range rec.Fields {
			t.AddField(&model.Field{
				Name: fr.Name, Type: v.InternType(fr.Type).ID, Access: fr.Access,
				Final: fr.Final, Static: fr.Static, Transient: fr.Transient,
				Volatile: fr.Volatile, Value: fr.Value,
			})
		}
	}

	for _, rec := range c.Methods {
		cls := v.InternType(rec.Class)
		m := v.NewMethod(cls.ID)
		m.ShortName = rec.ShortName
		m.Modifiers = model.Modifiers{Access: rec.Access, Abstract: rec.Abstract, Final: rec.Final, Static: rec.Static}
		m.Native = rec.Native
		m.Synchronized = rec.Synchronized
		m.Constructor = rec.Constructor
		m.Descriptor = rec.Descriptor
		m.Archive = rec.Archive
		if rec.Return != "" {
			m.Return = v.InternType(rec.Return).ID
		}
		for _, p := range rec.Params {
			m.Params = append(m.Params, model.Parameter{Type: v.InternType(p).ID})
		}
		for _, e := range rec.Exceptions {
			m.Exceptions[v.InternType(e).ID] = true
		}
	}

	v.Freeze()
	return v
}

// WriteBytes serializes v into a dump archive's bytes: JSON, then gzip, then
// the platform-appropriate wrapper pkg/archive provides (zip on Windows,
// tar.gz elsewhere — a mechanical selection only).
func WriteBytes(v *model.Version) ([]byte, error) {
	raw, err := json.Marshal(pack(v))
	if err != nil {
		return nil, fmt.Errorf("marshaling dump: %w", err)
	}

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("compressing dump: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing dump: %w", err)
	}

	files := map[string][]byte{dumpFileName: gz.Bytes()}
	if runtime.GOOS == "windows" {
		return archive.WriteZipBytes(files)
	}
	return archive.WriteTarGz(files)
}

// ReadBytes is WriteBytes's inverse: it unwraps whichever archive format
// data holds, decompresses the gzip payload, validates the format version,
// and reconstructs the model.Version.
func ReadBytes(data []byte) (*model.Version, error) {
	files, err := readWrapped(data)
	if err != nil {
		return nil, err
	}
	gzBytes, ok := files[dumpFileName]
	if !ok {
		return nil, &apperr.InvalidDump{Reason: "missing " + dumpFileName + " entry"}
	}

	r, err := gzip.NewReader(bytes.NewReader(gzBytes))
	if err != nil {
		return nil, &apperr.InvalidDump{Reason: "not a valid gzip stream", Err: err}
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, &apperr.InvalidDump{Reason: "truncated gzip stream", Err: err}
	}

	var c container
	if err := json.Unmarshal(buf.Bytes(), &c); err != nil {
		return nil, &apperr.InvalidDump{Reason: "malformed dump JSON", Err: err}
	}
	if c.FormatVersion != FormatVersion {
		return nil, &apperr.DumpVersion{Have: strconv.Itoa(c.FormatVersion), Want: strconv.Itoa(FormatVersion)}
	}

	return unpack(c), nil
}

// readWrapped tries tar.gz first (this engine's own non-Windows writer),
// falling back to zip, since a dump read back may have been produced on a
// different platform than it is being read on.
func readWrapped(data []byte) (map[string][]byte, error) {
	if files, err := archive.ReadTarGz(data); err == nil {
		return files, nil
	}
	files, err := archive.ReadZipBytes(data)
	if err != nil {
		return nil, &apperr.InvalidDump{Reason: "not a recognized dump archive", Err: err}
	}
	return files, nil
}
