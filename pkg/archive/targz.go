package archive

import (
	"archive/tar"
	stdzip "archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// WriteTarGz packs files (path -> content) into a gzip-compressed tar
// stream, used by pkg/dump to wrap a serialized API dump on non-Windows
// platforms. Compression is delegated to
// klauspost/compress/gzip rather than the stdlib compress/gzip.
func WriteTarGz(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		content := files[name]
		hdr := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("writing tar header for %s: %w", name, err)
		}
		if _, err := tw.Write(content); err != nil {
			return nil, fmt.Errorf("writing tar content for %s: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadTarGz unpacks a gzip-compressed tar stream into an in-memory
// name->content map, guarding against the same zip-bomb classes of attack
// as ExtractZip (entry count, per-entry size, total size).
func ReadTarGz(data []byte) (map[string][]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	out := make(map[string][]byte)
	var total int64
	count := 0

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}
		count++
		if count > maxFileCount {
			return nil, fmt.Errorf("tar.gz archive contains more than %d entries", maxFileCount)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if strings.Contains(hdr.Name, "..") {
			return nil, fmt.Errorf("tar entry attempts path traversal: %s", hdr.Name)
		}

		limited := io.LimitReader(tr, maxFileSize+1)
		content, err := io.ReadAll(limited)
		if err != nil {
			return nil, fmt.Errorf("reading tar content for %s: %w", hdr.Name, err)
		}
		if int64(len(content)) > maxFileSize {
			return nil, fmt.Errorf("tar entry %s exceeds maximum size of %d bytes", hdr.Name, maxFileSize)
		}
		total += int64(len(content))
		if total > maxTotalSize {
			return nil, fmt.Errorf("tar.gz total extracted size exceeds maximum of %d bytes", maxTotalSize)
		}
		out[filepath.ToSlash(hdr.Name)] = content
	}
	return out, nil
}

// WriteZipBytes packs files into an uncompressed-directory-friendly zip
// archive, used by pkg/dump on Windows (".zip on Windows,
// .tar.gz otherwise").
func WriteZipBytes(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := stdzip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating zip entry %s: %w", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, fmt.Errorf("writing zip entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadZipBytes unpacks an in-memory zip archive into a name->content map,
// with the same zip-bomb guards as ReadTarGz. It is WriteZipBytes's inverse.
func ReadZipBytes(data []byte) (map[string][]byte, error) {
	zr, err := stdzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip stream: %w", err)
	}

	out := make(map[string][]byte)
	var total int64
	if len(zr.File) > maxFileCount {
		return nil, fmt.Errorf("zip archive contains more than %d entries", maxFileCount)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.Contains(f.Name, "..") {
			return nil, fmt.Errorf("zip entry attempts path traversal: %s", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening zip entry %s: %w", f.Name, err)
		}
		limited := io.LimitReader(rc, maxFileSize+1)
		content, err := io.ReadAll(limited)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip content for %s: %w", f.Name, err)
		}
		if int64(len(content)) > maxFileSize {
			return nil, fmt.Errorf("zip entry %s exceeds maximum size of %d bytes", f.Name, maxFileSize)
		}
		total += int64(len(content))
		if total > maxTotalSize {
			return nil, fmt.Errorf("zip total extracted size exceeds maximum of %d bytes", maxTotalSize)
		}
		out[filepath.ToSlash(f.Name)] = content
	}
	return out, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
