package ingest

import "testing"

func TestFilter_Allow_DollarDigitClassesRejected(t *testing.T) {
	f := &Filter{}
	if f.Allow("com/acme/Foo$1.class") {
		t.Error("an anonymous/local class (Foo$1) should be rejected")
	}
	if !f.Allow("com/acme/Foo$Bar.class") {
		t.Error("a named nested class (Foo$Bar) should be allowed")
	}
}

func TestFilter_Allow_DottedDirectoryRejected(t *testing.T) {
	f := &Filter{}
	if f.Allow("META-INF/versions.9/com/acme/Foo.class") {
		t.Error("a path with a dotted directory component should be rejected")
	}
}

func TestFilter_Allow_ImplicitInternalPackageRejectedUnlessKept(t *testing.T) {
	f := &Filter{}
	if f.Allow("com/sun/Foo.class") {
		t.Error("com.sun is implicitly internal and should be rejected")
	}
	kept := &Filter{KeepInternal: true}
	if !kept.Allow("com/sun/Foo.class") {
		t.Error("KeepInternal should allow an implicitly internal package")
	}
}

func TestFilter_Allow_ImplicitInternalPathSegmentRejected(t *testing.T) {
	f := &Filter{}
	if f.Allow("com/acme/internal/Foo.class") {
		t.Error("a path segment named 'internal' should be rejected")
	}
	if f.Allow("com/acme/impl/Foo.class") {
		t.Error("a path segment named 'impl' should be rejected")
	}
	if f.Allow("com/acme/examples/Foo.class") {
		t.Error("a path segment named 'examples' should be rejected")
	}
}

func TestFilter_Allow_SkipListRejectsMatchingPackage(t *testing.T) {
	f := &Filter{Skip: []string{"com.acme.legacy"}}
	if f.Allow("com/acme/legacy/Foo.class") {
		t.Error("a package under the skip list should be rejected")
	}
	if f.Allow("com/acme/legacy/sub/Foo.class") {
		t.Error("a sub-package of a skipped package should also be rejected")
	}
	if !f.Allow("com/acme/other/Foo.class") {
		t.Error("a package not under the skip list should be allowed")
	}
}

func TestFilter_Allow_KeepListRequiresMatch(t *testing.T) {
	f := &Filter{Keep: []string{"com.acme.pub"}}
	if !f.Allow("com/acme/pub/Foo.class") {
		t.Error("a package under the keep list should be allowed")
	}
	if f.Allow("com/acme/other/Foo.class") {
		t.Error("a package not under the keep list should be rejected when a keep list is set")
	}
}

func TestFilter_Allow_SkipAndKeepAreAdditive(t *testing.T) {
	f := &Filter{Skip: []string{"com.acme.pub.legacy"}, Keep: []string{"com.acme.pub"}}
	if f.Allow("com/acme/pub/legacy/Foo.class") {
		t.Error("skip should win even when the package also matches keep")
	}
	if !f.Allow("com/acme/pub/current/Foo.class") {
		t.Error("a package matching keep and not matching skip should be allowed")
	}
}

func TestPackageOf(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"com/acme/Foo.class", "com.acme"},
		{"Foo.class", ""},
		{"com/acme/impl/Foo.class", "com.acme.impl"},
	}
	for _, tt := range tests {
		if got := PackageOf(tt.path); got != tt.want {
			t.Errorf("PackageOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
