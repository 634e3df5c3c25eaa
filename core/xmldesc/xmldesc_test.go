package xmldesc

import (
	"strings"
	"testing"
)

const sampleXML = `<descriptor>
  <version>2.0</version>
  <archives>
    /opt/libs/widget-2.0.jar
    /opt/libs/widget-2.0-extra.jar
  </archives>
  <skip_packages>
    com.example.internal
  </skip_packages>
  <packages>
    com.example.api
    com.example.spi
  </packages>
</descriptor>`

func TestParse_DecodesAllFields(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if d.Version != "2.0" {
		t.Errorf("Version = %q, want 2.0", d.Version)
	}
}

func TestDescriptor_ArchivesSplitAndTrimmed(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	archives := d.Archives()
	want := []string{"/opt/libs/widget-2.0.jar", "/opt/libs/widget-2.0-extra.jar"}
	if len(archives) != len(want) {
		t.Fatalf("Archives() = %v, want %v", archives, want)
	}
	for i := range want {
		if archives[i] != want[i] {
			t.Errorf("Archives()[%d] = %q, want %q", i, archives[i], want[i])
		}
	}
}

func TestDescriptor_SkipAndKeepPackages(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if skip := d.SkipPackages(); len(skip) != 1 || skip[0] != "com.example.internal" {
		t.Errorf("SkipPackages() = %v, want [com.example.internal]", skip)
	}
	pkgs := d.Packages()
	if len(pkgs) != 2 || pkgs[0] != "com.example.api" || pkgs[1] != "com.example.spi" {
		t.Errorf("Packages() = %v, want [com.example.api com.example.spi]", pkgs)
	}
}

func TestDescriptor_BlankLinesDropped(t *testing.T) {
	xmlDoc := `<descriptor><archives>

a.jar


b.jar

</archives></descriptor>`
	d, err := Parse(strings.NewReader(xmlDoc))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	archives := d.Archives()
	if len(archives) != 2 || archives[0] != "a.jar" || archives[1] != "b.jar" {
		t.Errorf("Archives() = %v, want [a.jar b.jar] with blank lines dropped", archives)
	}
}

func TestDescriptor_EmptyOptionalListsYieldNil(t *testing.T) {
	d, err := Parse(strings.NewReader(`<descriptor><version>1.0</version><archives>a.jar</archives></descriptor>`))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if len(d.SkipPackages()) != 0 {
		t.Errorf("SkipPackages() = %v, want empty", d.SkipPackages())
	}
	if len(d.Packages()) != 0 {
		t.Errorf("Packages() = %v, want empty", d.Packages())
	}
}

func TestParse_InvalidXMLReturnsError(t *testing.T) {
	if _, err := Parse(strings.NewReader("<not-closed>")); err == nil {
		t.Error("Parse should return an error for malformed XML")
	}
}
