package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/observ"
	"spin/internal/source"
	"spin/internal/trace"
)

// Ext is the manifest file extension.
const Ext = ".spn"

// CheckOptions configures CheckDir and CheckPaths.
type CheckOptions struct {
	Options
	Jobs     int        // 0 — GOMAXPROCS
	Cache    *DiskCache // nil disables caching
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the outcome for one manifest.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Document is nil for cache hits, load failures and fatal parses.
	Document *ast.Document
	Bag      *diag.Bag
	Fatal    bool
	Cached   bool
	LoadErr  error
}

// CheckResult holds per-file results in path order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file has an error diagnostic.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Counts returns the number of error and warning diagnostics.
func (r *CheckResult) Counts() (errs, warnings int) {
	for i := range r.Files {
		if r.Files[i].Bag == nil {
			continue
		}
		for _, d := range r.Files[i].Bag.Items() {
			switch {
			case d.Severity >= diag.SevError:
				errs++
			case d.Severity == diag.SevWarning:
				warnings++
			}
		}
	}
	return errs, warnings
}

// ListManifests возвращает отсортированный список всех *.spn файлов в dir.
// Hidden directories (".git", ".cache") are skipped.
func ListManifests(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// CheckDir checks every manifest under dir.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*CheckResult, error) {
	return CheckPaths(ctx, dir, []string{dir}, opts)
}

// CheckPaths checks files and directories; base is the directory paths are
// shown relative to. Files are checked in parallel, results keep path order.
func CheckPaths(ctx context.Context, base string, paths []string, opts CheckOptions) (*CheckResult, error) {
	sp, ctx := trace.BeginCtx(ctx, trace.ScopeDriver, "check")
	defer sp.End("")

	idx := opts.Timer.Begin("discover")
	files, err := ExpandPaths(ctx, paths)
	opts.Timer.End(idx, strconv.Itoa(len(files))+" files")
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeDriver, "discover", err)
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(base)
	result := &CheckResult{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	// Предзагрузка последовательно: FileID совпадают с порядком путей.
	idx = opts.Timer.Begin("load")
	loadSpan, _ := trace.BeginCtx(ctx, trace.ScopePass, "load")
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// пустой файл-заглушка, чтобы диагностике было к чему привязаться
			id = fileSet.Add(path, nil, 0)
		}
		result.Files[i] = FileResult{Path: path, FileID: id, LoadErr: loadErr}
	}
	loadSpan.End("")
	opts.Timer.End(idx, "")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	idx = opts.Timer.Begin("check")
	passSpan, passCtx := trace.BeginCtx(ctx, trace.ScopePass, "parse")
	g, gctx := errgroup.WithContext(passCtx)
	g.SetLimit(min(jobs, len(files)))
	for i := range result.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			checkOne(gctx, fileSet, &result.Files[i], opts)
			return nil
		})
	}
	err = g.Wait()
	passSpan.WithExtra("files", strconv.Itoa(len(files))).End("")
	opts.Timer.End(idx, "")
	if err != nil {
		return result, err
	}

	emit(opts.Progress, Event{Stage: StageParse, Status: StatusDone})
	return result, nil
}

func checkOne(ctx context.Context, fileSet *source.FileSet, fr *FileResult, opts CheckOptions) {
	start := time.Now()
	sp, _ := trace.BeginCtx(ctx, trace.ScopeFile, "file:"+fr.Path)
	tr := trace.FromContext(ctx)

	done := func(stage Stage) {
		status := StatusDone
		if fr.Bag.HasErrors() {
			status = StatusError
		}
		emit(opts.Progress, Event{File: fr.Path, Stage: stage, Status: status, Err: fr.LoadErr, Elapsed: time.Since(start)})
		sp.WithExtra("diagnostics", strconv.Itoa(fr.Bag.Len())).End(string(stage))
	}

	if fr.LoadErr != nil {
		fr.Bag = diag.NewBag(opts.MaxDiagnostics)
		fr.Bag.Add(diag.NewError(diag.IOLoadFileError,
			source.Span{File: fr.FileID},
			"failed to load file: "+unwrapPathError(fr.LoadErr)))
		trace.Error(tr, trace.ScopeFile, "load", fr.LoadErr)
		done(StageLoad)
		return
	}

	file := fileSet.Get(fr.FileID)
	key := CacheKey(file.Hash, opts.Options)
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusWorking})
		var cached CachedFile
		hit, err := opts.Cache.Get(key, fr.FileID, &cached)
		if err != nil {
			trace.Error(tr, trace.ScopeFile, "cache-get", err)
		}
		if hit {
			fr.Bag = diag.NewBag(0)
			for _, d := range cached.Diagnostics {
				fr.Bag.Add(d)
			}
			fr.Bag.NoteDropped(cached.Dropped)
			fr.Fatal = cached.Fatal
			fr.Cached = true
			trace.Point(tr, trace.ScopeFile, "cache", "hit "+fr.Path)
			done(StageCache)
			return
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	res, err := parseFile(fileSet, file, opts.Options)
	if err != nil {
		// только переполнение лимита; в ответ — пустой результат с ошибкой
		fr.Bag = diag.NewBag(0)
		fr.LoadErr = err
		done(StageParse)
		return
	}
	fr.Document = res.Document
	fr.Fatal = res.Fatal
	fr.Bag = res.Bag

	if opts.Cache != nil {
		blocks := 0
		if res.Document != nil {
			blocks = len(res.Document.Blocks)
		}
		payload := &CachedFile{
			Path:        fr.Path,
			Diagnostics: res.Bag.Items(),
			Dropped:     res.Bag.Dropped(),
			Fatal:       res.Fatal,
			Blocks:      blocks,
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			trace.Error(tr, trace.ScopeFile, "cache-put", err)
		}
	}
	done(StageParse)
}

// ExpandPaths expands directories into their manifests; explicit files are
// taken whatever their extension. Duplicates are dropped, the result is sorted.
func ExpandPaths(ctx context.Context, paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := ListManifests(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	slices.Sort(files)
	return files, nil
}

// unwrapPathError drops the "read <path>:" prefix; the diagnostic already
// names the file.
func unwrapPathError(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
