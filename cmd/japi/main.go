package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/lvc/japi-compliance-checker/core/apperr"
	"github.com/lvc/japi-compliance-checker/core/classify"
	"github.com/lvc/japi-compliance-checker/core/cli"
	"github.com/lvc/japi-compliance-checker/core/diff"
	"github.com/lvc/japi-compliance-checker/core/disasm"
	"github.com/lvc/japi-compliance-checker/core/ingest"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/propagate"
	"github.com/lvc/japi-compliance-checker/core/report"
	"github.com/lvc/japi-compliance-checker/core/selftest"
	"github.com/lvc/japi-compliance-checker/core/usage"
	"github.com/lvc/japi-compliance-checker/core/xmldesc"
	"github.com/lvc/japi-compliance-checker/pkg/disasmproc"
	"github.com/lvc/japi-compliance-checker/pkg/dump"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCompare := func(ctx context.Context, opts cli.CompareOptions) error {
		warnIfOlder(opts.Version1, opts.Version2)

		oldV, oldTables, oldCleanup, err := loadSide(ctx, opts.OldPath, opts.Version1, "old", opts)
		if err != nil {
			return err
		}
		defer oldCleanup()

		newV, newTables, newCleanup, err := loadSide(ctx, opts.NewPath, opts.Version2, "new", opts)
		if err != nil {
			return err
		}
		defer newCleanup()

		problems := diff.Compare(oldV, newV, diff.Options{Quick: opts.Quick, CheckImplementation: opts.CheckImplementation})
		classify.Classify(problems, newV, newTables, classify.Mode{Quick: opts.Quick})
		problems = classify.Ceiling(problems)

		affected := propagate.Propagate(problems, newV, 0)

		canonicalID := func(p report.Problem) string {
			v := oldV
			switch p.Kind {
			case report.KindAddedMethod, report.KindNonAbstractClassAddedAbstractMethod,
				report.KindAbstractClassAddedAbstractMethod, report.KindInterfaceAddedAbstractMethod:
				v = newV
			}
			m := v.Method(p.MethodID)
			if m == nil {
				return ""
			}
			return m.CanonicalID(v.Names)
		}
		methodID := func(id model.MethodID) string {
			m := newV.Method(id)
			if m == nil {
				return ""
			}
			return m.CanonicalID(newV.Names)
		}

		oldLabel, newLabel := oldV.Label, newV.Label
		r := report.Build(oldLabel, newLabel, problems, affected, canonicalID, methodID)
		r.RunID = uuid.NewString()

		binary, source := opts.Binary, opts.Source
		if !binary && !source {
			binary, source = true, true
		}

		if err := writeReports(r, opts, binary, source); err != nil {
			return err
		}

		compatible := true
		if binary && !r.BinaryCompatible {
			compatible = false
		}
		if source && !r.SourceCompatible {
			compatible = false
		}
		if !compatible {
			return incompatibleResult{}
		}
		return nil
	}

	runDump := func(ctx context.Context, opts cli.DumpOptions) error {
		v, _, cleanup, err := loadSide(ctx, opts.InputPath, opts.Version, "version", cli.CompareOptions{
			SkipPackages: opts.SkipPackages,
			KeepPackages: opts.KeepPackages,
			DisasmPath:   opts.DisasmPath,
		})
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := dump.WriteBytes(v)
		if err != nil {
			return fmt.Errorf("writing dump: %w", err)
		}
		if err := os.WriteFile(opts.DumpPath, data, 0o644); err != nil {
			return &apperr.AccessError{Path: opts.DumpPath, Err: err}
		}
		return nil
	}

	runSelfTest := func(ctx context.Context) error {
		results := selftest.Run()
		for _, r := range results {
			status := "ok"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", status, r.Name, r.Detail)
		}
		if !selftest.AllPassed(results) {
			return &apperr.InternalError{Reason: "one or more self-test scenarios failed"}
		}
		return nil
	}

	root := cli.NewRootCmd(version)
	root.AddCommand(cli.NewCompareCmd(runCompare))
	root.AddCommand(cli.NewDumpCmd(runDump))
	root.AddCommand(cli.NewSelfTestCmd(runSelfTest))

	if err := root.ExecuteContext(ctx); err != nil {
		if _, ok := err.(incompatibleResult); !ok {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

// incompatibleResult signals a successfully produced report whose verdict
// is "incompatible" — not itself a failure to run, so it prints no error
// line, but still drives exit code 1.
type incompatibleResult struct{}

func (incompatibleResult) Error() string { return "incompatible" }

func exitCodeFor(err error) int {
	if _, ok := err.(incompatibleResult); ok {
		return apperr.ExitIncompatible
	}
	return apperr.CodeOf(err)
}

// warnIfOlder prints a warning to stderr when new looks semver-older than
// old.
func warnIfOlder(oldVersion, newVersion string) {
	if oldVersion == "" || newVersion == "" {
		return
	}
	o, n := normalizeSemver(oldVersion), normalizeSemver(newVersion)
	if semver.IsValid(o) && semver.IsValid(n) && semver.Compare(n, o) < 0 {
		fmt.Fprintf(os.Stderr, "warning: new version %s is older than old version %s\n", newVersion, oldVersion)
	}
}

func normalizeSemver(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// loadSide resolves one comparison side's input (archive/directory/list,
// XML descriptor, or serialized dump) into a Version and its usage tables.
func loadSide(ctx context.Context, path, versionLabel, defaultLabel string, opts cli.CompareOptions) (*model.Version, *usage.Tables, func(), error) {
	label := versionLabel
	if label == "" {
		label = defaultLabel
	}

	if strings.HasSuffix(strings.ToLower(path), ".xml") {
		return loadFromDescriptor(ctx, path, label, opts)
	}

	if v, err := dump.ReadBytes(mustRead(path)); err == nil {
		return v, usage.NewTables(), func() {}, nil
	}

	return loadFromArchives(ctx, splitPaths(path), label, opts)
}

func mustRead(path string) []byte {
	data, _ := os.ReadFile(path)
	return data
}

func loadFromDescriptor(ctx context.Context, path, label string, opts cli.CompareOptions) (*model.Version, *usage.Tables, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, &apperr.AccessError{Path: path, Err: err}
	}
	defer f.Close()

	d, err := xmldesc.Parse(f)
	if err != nil {
		return nil, nil, nil, &apperr.AccessError{Path: path, Err: err}
	}

	descLabel := label
	if d.Version != "" {
		descLabel = d.Version
	}
	merged := opts
	merged.SkipPackages = append(append([]string{}, opts.SkipPackages...), d.SkipPackages()...)
	merged.KeepPackages = append(append([]string{}, opts.KeepPackages...), d.Packages()...)

	return loadFromArchives(ctx, d.Archives(), descLabel, merged)
}

func loadFromArchives(ctx context.Context, paths []string, label string, opts cli.CompareOptions) (*model.Version, *usage.Tables, func(), error) {
	v := model.NewVersion(label)
	tables := usage.NewTables()

	disasmPath := opts.DisasmPath
	if disasmPath == "" {
		disasmPath = "javap"
	}

	ing := &ingest.Ingestor{
		Filter: &ingest.Filter{
			Skip:         opts.SkipPackages,
			Keep:         opts.KeepPackages,
			KeepInternal: opts.KeepInternal,
		},
		Disassembler: disasmproc.NewClient(disasmPath),
		Opts: disasm.Options{
			Quick:               opts.Quick,
			CheckImplementation: opts.CheckImplementation,
			KeepInternal:        opts.KeepInternal,
		},
	}

	result, err := ing.Ingest(ctx, paths, v, tables)
	if err != nil {
		return nil, nil, nil, err
	}
	return v, tables, result.Cleanup, nil
}

func splitPaths(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeReports(r report.Report, opts cli.CompareOptions, binary, source bool) error {
	if opts.ReportPath != "" {
		return writeJSON(opts.ReportPath, r)
	}

	base := reportDir(opts.LibraryName, r.OldVersion, r.NewVersion)
	if binary {
		path := opts.BinReportPath
		if path == "" {
			path = filepath.Join(base, "bin-report.json")
		}
		if err := writeJSON(path, r); err != nil {
			return err
		}
	}
	if source {
		path := opts.SrcReportPath
		if path == "" {
			path = filepath.Join(base, "src-report.json")
		}
		if err := writeJSON(path, r); err != nil {
			return err
		}
	}
	return nil
}

func reportDir(library, oldLabel, newLabel string) string {
	if library == "" {
		library = "library"
	}
	return filepath.Join("compat_reports", library, oldLabel+"_to_"+newLabel)
}

func writeJSON(path string, r report.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperr.AccessError{Path: dir, Err: err}
		}
	}
	data, err := r.ToJSON()
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &apperr.AccessError{Path: path, Err: err}
	}
	return nil
}
