// Package archive extracts zip-based archives (jar files and the archives
// nested in them) to scratch directories, and packs and unpacks the zip or
// tar.gz wrapper of serialized API dumps in memory, guarding against
// zip-slip and zip-bomb attacks.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	maxFileSize  = 200 * 1024 * 1024      // 200 MB per entry (class files + nested jars)
	maxTotalSize = 2 * 1024 * 1024 * 1024 // 2 GB total extracted
	maxFileCount = 200000                 // maximum number of entries in an archive
)

// jarArchiveSuffixes is the set of nested-archive extensions a jar is
// allowed to embed (WEB-INF/lib and similar bundling layouts); entries
// with these suffixes are extracted even though they are not .class
// files, since the ingestor recurses into them.
var jarArchiveSuffixes = []string{".jar", ".zip", ".war", ".ear"}

// worthExtracting reports whether a jar entry can possibly feed the API
// comparison: a .class file, or an archive the ingestor will recurse
// into. Everything else — resources, manifests, native libraries, license
// text — never reaches the disassembler, so extracting it just spends
// disk and time a compliance check has no use for.
func worthExtracting(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".class") {
		return true
	}
	for _, suffix := range jarArchiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// ExtractZip unpacks a zip archive (including .jar files, which are zip
// archives) to a temp directory, skipping any entry that is neither a
// .class file nor a nested archive.
// Returns the path to the extracted directory and a cleanup function
// that removes the temp directory.
// Validates all paths to prevent zip-slip (path traversal) attacks.
// Enforces size limits to prevent zip bomb attacks.
func ExtractZip(data []byte, prefix string) (dir string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "japicc-"+sanitizePrefix(prefix)+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	cleanupFn := func() { os.RemoveAll(tmpDir) }

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		cleanupFn()
		return "", nil, fmt.Errorf("failed to read zip archive: %w", err)
	}

	if len(reader.File) > maxFileCount {
		cleanupFn()
		return "", nil, fmt.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), maxFileCount)
	}

	var totalExtracted int64

	for _, file := range reader.File {
		// Skip symlinks to prevent symlink-based attacks.
		if file.Mode()&os.ModeSymlink != 0 {
			continue
		}

		target := filepath.Join(tmpDir, file.Name)

		// Zip-slip protection: ensure resolved path is within tmpDir
		resolvedTarget, err := filepath.Abs(target)
		if err != nil {
			cleanupFn()
			return "", nil, fmt.Errorf("failed to resolve path %s: %w", file.Name, err)
		}
		resolvedBase, err := filepath.Abs(tmpDir)
		if err != nil {
			cleanupFn()
			return "", nil, fmt.Errorf("failed to resolve base path: %w", err)
		}
		if !strings.HasPrefix(resolvedTarget, resolvedBase+string(os.PathSeparator)) && resolvedTarget != resolvedBase {
			cleanupFn()
			return "", nil, fmt.Errorf("zip entry attempts path traversal: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				cleanupFn()
				return "", nil, fmt.Errorf("failed to create directory %s: %w", file.Name, err)
			}
			continue
		}

		if !worthExtracting(file.Name) {
			continue
		}

		// Ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			cleanupFn()
			return "", nil, fmt.Errorf("failed to create parent directory for %s: %w", file.Name, err)
		}

		rc, err := file.Open()
		if err != nil {
			cleanupFn()
			return "", nil, fmt.Errorf("failed to open zip entry %s: %w", file.Name, err)
		}

		outFile, err := os.Create(target)
		if err != nil {
			rc.Close()
			cleanupFn()
			return "", nil, fmt.Errorf("failed to create file %s: %w", file.Name, err)
		}

		limitedReader := io.LimitReader(rc, maxFileSize+1)
		n, err := io.Copy(outFile, limitedReader)
		if err != nil {
			outFile.Close()
			rc.Close()
			cleanupFn()
			return "", nil, fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
		if n > maxFileSize {
			outFile.Close()
			rc.Close()
			cleanupFn()
			return "", nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
		}

		totalExtracted += n
		if totalExtracted > maxTotalSize {
			outFile.Close()
			rc.Close()
			cleanupFn()
			return "", nil, fmt.Errorf("total extracted size exceeds maximum of %d bytes", maxTotalSize)
		}

		outFile.Close()
		rc.Close()
	}

	return tmpDir, cleanupFn, nil
}

// ExtractZipFile is a convenience wrapper around ExtractZip that reads the
// archive from disk first — the common path for the archive ingestor
// opening a jar supplied on the CLI.
func ExtractZipFile(path, prefix string) (dir string, cleanup func(), err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	return ExtractZip(data, prefix)
}

// sanitizePrefix keeps MkdirTemp's pattern argument free of path separators
// or other characters that could confuse the OS temp-dir naming scheme when
// prefix is derived from a user-supplied library/version label.
func sanitizePrefix(prefix string) string {
	var b strings.Builder
	kept := 0
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			kept++
		default:
			b.WriteRune('_')
		}
	}
	if kept == 0 {
		return "archive"
	}
	return b.String()
}
