// Package ingest implements the archive ingestor: given one or more
// archive paths, it recurses into nested archives, applies the filter
// rules in order, batches the surviving class files, and hands each batch
// to a Disassembler.
package ingest

import (
	"path"
	"regexp"
	"strings"
)

// implicitInternalPackages are the package prefixes treated as implicitly
// internal.
var implicitInternalPackages = []string{"com.oracle", "com.sun", "COM.rsa", "sun", "sunw"}

// implicitInternalPathSegments are the path segments that mark a class as
// internal regardless of its declared package.
var implicitInternalPathSegments = map[string]bool{"internal": true, "impl": true, "examples": true}

// dollarDigitPattern matches a simple class name containing a dollar sign
// followed directly by a digit — anonymous/local classes.
var dollarDigitPattern = regexp.MustCompile(`\$\d`)

// dottedDirPattern matches a path component that itself contains a dot —
// an embedded version directory (e.g. "META-INF.versions.9").
var dottedDirPattern = regexp.MustCompile(`^[^/]*\.[^/]*$`)

// Filter holds the user-supplied skip/keep lists and the keep-internal
// override, the flags realized as CLI options.
type Filter struct {
	Skip         []string // package-prefix blacklist
	Keep         []string // package-prefix whitelist; empty means "no restriction"
	KeepInternal bool
}

// Allow applies the four filter rules, in order, to one class-file path
// within an archive (e.g. "com/acme/impl/Foo$1.class") and its derived
// package name (e.g. "com.acme.impl"). It returns false as soon as any
// rule rejects the file.
func (f *Filter) Allow(classFilePath string) bool {
	simpleName := strings.TrimSuffix(path.Base(classFilePath), ".class")

	// Rule 1: dollar-digit anonymous/local classes.
	if dollarDigitPattern.MatchString(simpleName) {
		return false
	}

	dir := path.Dir(classFilePath)
	segments := strings.Split(dir, "/")

	// Rule 2: any directory component containing a dot.
	for _, seg := range segments {
		if seg != "" && seg != "." && dottedDirPattern.MatchString(seg) {
			return false
		}
	}

	pkg := PackageOf(classFilePath)

	// Rule 3: implicit internal prefixes/segments, unless KeepInternal.
	if !f.KeepInternal {
		for _, p := range implicitInternalPackages {
			if pkg == p || strings.HasPrefix(pkg, p+".") {
				return false
			}
		}
		for _, seg := range segments {
			if implicitInternalPathSegments[strings.ToLower(seg)] {
				return false
			}
		}
	}

	// Rule 4: skip/keep are additive — a class must satisfy both.
	for _, skip := range f.Skip {
		if pkg == skip || strings.HasPrefix(pkg, skip+".") {
			return false
		}
	}
	if len(f.Keep) > 0 {
		matched := false
		for _, keep := range f.Keep {
			if pkg == keep || strings.HasPrefix(pkg, keep+".") {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// PackageOf derives the dotted package name from a class-file path within
// an archive, e.g. "com/acme/impl/Foo.class" -> "com.acme.impl".
func PackageOf(classFilePath string) string {
	dir := path.Dir(classFilePath)
	if dir == "." {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}
