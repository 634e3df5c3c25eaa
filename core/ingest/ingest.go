package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/disasm"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/usage"
	"github.com/lvc/japi-compliance-checker/pkg/archive"
)

// Disassembler turns a batch of on-disk .class file paths into their
// textual disassembly. It is the process boundary encapsulated behind an
// interface so tests can feed canned text without invoking a real
// disassembler.
type Disassembler interface {
	Disassemble(ctx context.Context, classFilePaths []string) (string, error)
}

// maxBatchArgBytes is the conservative per-chunk budget for the combined
// length of class-file paths handed to one Disassemble call, staying well
// under typical platform command-line limits.
const maxBatchArgBytes = 32 * 1024

// classFileRef is one surviving class file after filtering, plus the
// archive it was extracted from (used to populate Type/Method.Archive).
type classFileRef struct {
	path    string // absolute path on disk after extraction
	archive string // the archive filename this class came from (for nested jars, the innermost)
}

// Ingestor walks archive paths, filters class files, batches them, and
// feeds each batch's disassembly to a disasm.Parser populating version.
type Ingestor struct {
	Filter       *Filter
	Disassembler Disassembler
	Opts         disasm.Options
}

// IngestResult carries the cleanup closures the caller must run once
// finished with version (all extraction happens into scratch directories).
type IngestResult struct {
	Cleanup func()
}

// Ingest extracts and disassembles every archive in archivePaths into
// version and tables, recursing into nested jars. It aborts (returning a
// fatal error) on the first extraction or disassembly failure.
func (ing *Ingestor) Ingest(ctx context.Context, archivePaths []string, version *model.Version, tables *usage.Tables) (*IngestResult, error) {
	var cleanups []func()
	cleanupAll := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var refs []classFileRef
	for _, archivePath := range archivePaths {
		archiveRefs, archiveCleanups, err := ing.extractArchive(archivePath)
		cleanups = append(cleanups, archiveCleanups...)
		if err != nil {
			cleanupAll()
			return nil, err
		}
		refs = append(refs, archiveRefs...)
	}

	// Deterministic order so chunking (and therefore any disassembler
	// invocation diagnostics) is reproducible across runs.
	sort.Slice(refs, func(i, j int) bool { return refs[i].path < refs[j].path })

	for _, batch := range chunkRefs(refs) {
		paths := make([]string, len(batch))
		for i, r := range batch {
			paths[i] = r.path
		}
		text, err := ing.Disassembler.Disassemble(ctx, paths)
		if err != nil {
			cleanupAll()
			return nil, fmt.Errorf("disassembling batch: %w", err)
		}

		// The parser attributes every class in one text to a single
		// archive label. chunkRefs never mixes archives in one batch, so
		// the batch's one archive is that label; batchArchiveLabel would
		// return "" (unknown) for a mixed batch.
		archiveLabel := batchArchiveLabel(batch)

		p := disasm.NewParser(version, tables, archiveLabel, ing.Opts)
		if err := p.ParseText(text); err != nil {
			cleanupAll()
			return nil, err
		}
	}

	version.Freeze()
	return &IngestResult{Cleanup: cleanupAll}, nil
}

func batchArchiveLabel(batch []classFileRef) string {
	if len(batch) == 0 {
		return ""
	}
	first := batch[0].archive
	for _, r := range batch[1:] {
		if r.archive != first {
			return ""
		}
	}
	return first
}

// extractArchive extracts one archive path (and recursively, any nested
// jars it contains) and returns the surviving class file refs after
// filtering, plus the cleanup closures for every scratch directory created.
func (ing *Ingestor) extractArchive(archivePath string) ([]classFileRef, []func(), error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, nil, &apperr.AccessError{Path: archivePath, Err: err}
	}
	if info.IsDir() {
		return ing.extractDirectoryOfArchives(archivePath)
	}

	dir, cleanup, err := archive.ExtractZipFile(archivePath, filepath.Base(archivePath))
	if err != nil {
		return nil, nil, &apperr.AccessError{Path: archivePath, Err: err}
	}

	refs, nestedCleanups, err := ing.walkExtracted(dir, filepath.Base(archivePath))
	cleanups := append([]func(){cleanup}, nestedCleanups...)
	if err != nil {
		return nil, cleanups, err
	}
	return refs, cleanups, nil
}

// extractDirectoryOfArchives handles the "directory containing archives"
// input form.
func (ing *Ingestor) extractDirectoryOfArchives(dirPath string) ([]classFileRef, []func(), error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, nil, &apperr.AccessError{Path: dirPath, Err: err}
	}
	var allRefs []classFileRef
	var allCleanups []func()
	for _, e := range entries {
		if e.IsDir() || !isArchiveName(e.Name()) {
			continue
		}
		refs, cleanups, err := ing.extractArchive(filepath.Join(dirPath, e.Name()))
		allCleanups = append(allCleanups, cleanups...)
		if err != nil {
			return allRefs, allCleanups, err
		}
		allRefs = append(allRefs, refs...)
	}
	return allRefs, allCleanups, nil
}

// walkExtracted walks an already-extracted archive directory, filtering
// class files and recursing into any nested jar it finds.
func (ing *Ingestor) walkExtracted(dir, archiveName string) ([]classFileRef, []func(), error) {
	var refs []classFileRef
	var cleanups []func()

	err := filepath.Walk(dir, func(p string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)

		switch {
		case strings.HasSuffix(relSlash, ".class"):
			if ing.Filter.Allow(relSlash) {
				refs = append(refs, classFileRef{path: p, archive: archiveName})
			}
		case isArchiveName(relSlash):
			nestedRefs, nestedCleanups, err := ing.extractArchive(p)
			cleanups = append(cleanups, nestedCleanups...)
			if err != nil {
				return err
			}
			refs = append(refs, nestedRefs...)
		}
		return nil
	})
	if err != nil {
		return refs, cleanups, &apperr.AccessError{Path: dir, Err: err}
	}
	return refs, cleanups, nil
}

func isArchiveName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".jar") || strings.HasSuffix(lower, ".zip") ||
		strings.HasSuffix(lower, ".war") || strings.HasSuffix(lower, ".ear")
}

// chunkRefs splits refs into batches whose combined path length stays
// under maxBatchArgBytes, so each batch fits within the platform
// command-line limit. A new batch also starts whenever the source archive
// changes, so every batch comes from exactly one archive.
func chunkRefs(refs []classFileRef) [][]classFileRef {
	var chunks [][]classFileRef
	var current []classFileRef
	var size int

	for _, r := range refs {
		add := len(r.path) + 1
		if len(current) > 0 && (size+add > maxBatchArgBytes || r.archive != current[0].archive) {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
		current = append(current, r)
		size += add
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
