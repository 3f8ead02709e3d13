package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/job"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/moduledeps"
)

// seenExt is the source file extension this watcher recognises (spec.md
// 6 "Source-file format"). Only this extension ever reaches IncrementalBuild;
// everything else is noise from editors and build tooling.
const seenExt = ".seen"

// debounceWindow is how long the watch loop waits for a burst of fsnotify
// events (a save often fires Write followed by a Chmod, or several Writes
// from an editor's atomic-rename strategy) to settle before kicking off a
// recheck, so one keystroke-triggered save doesn't trigger N rebuilds.
const debounceWindow = 100 * time.Millisecond

// ignoredBasenames are editor/VCS artifacts that live alongside .seen
// sources but never carry Seen code, so a change to them never needs a
// recheck.
var ignoredBasenames = []string{"*.swp", "*.swo", "*~", ".DS_Store"}

// IncrementalCompiler re-checks only the files a save touched, grounded
// on the teacher's IncrementalBuild cache-by-path shape but driving
// internal/compiler/job.Job in ModeCheck instead of the teacher's
// resource-to-Go codegen pipeline. It also keeps a moduledeps.Graph of
// every file it has compiled, so a driver can ask for a re-check order
// once Seen grows an import statement (spec.md 4.J: "not used
// internally by this core beyond ordering the type-checking of items
// with forward references" — today every file is its own module with
// no declared edges, so CompilationOrder degrades to an arbitrary
// topological order over a graph with no edges).
type IncrementalCompiler struct {
	language string
	table    *keyword.Table
	logger   *zap.Logger

	cache map[string]*job.Result
	graph *moduledeps.Graph

	lastCompile time.Time

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	// OnRebuild, if set, is called after every debounced IncrementalBuild
	// triggered by Watch, whether or not it succeeded.
	OnRebuild func(*CompileResult)
}

// NewIncrementalCompiler builds a compiler for the given project
// language tag (spec.md 6). It panics if tag is not registered, the
// same contract internal/cli/config's validation already enforces before
// construction.
func NewIncrementalCompiler(language string, logger *zap.Logger) *IncrementalCompiler {
	lang, ok := keyword.Lookup(language)
	if !ok {
		panic(fmt.Sprintf("watch: unknown language tag %q", language))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncrementalCompiler{
		language: language,
		table:    lang.Table,
		logger:   logger,
		cache:    make(map[string]*job.Result),
		graph:    moduledeps.New(),
	}
}

// CompileResult holds the outcome of one incremental or full build.
type CompileResult struct {
	Success      bool
	Errors       []cerrors.CompilerError
	Duration     time.Duration
	ChangedFiles []string
}

// IncrementalBuild type-checks every changed .seen file and merges its
// diagnostics into the result. Non-.seen files are ignored (spec.md 6:
// language selection applies to Seen source files only).
func (ic *IncrementalCompiler) IncrementalBuild(changedFiles []string) (*CompileResult, error) {
	start := time.Now()

	result := &CompileResult{
		ChangedFiles: changedFiles,
	}

	seenFiles := make([]string, 0, len(changedFiles))
	for _, f := range changedFiles {
		if filepath.Ext(f) == seenExt {
			seenFiles = append(seenFiles, f)
		}
	}

	if len(seenFiles) == 0 {
		result.Success = true
		result.Duration = time.Since(start)
		return result, nil
	}

	j := job.New(ic.logger)
	for _, file := range seenFiles {
		res, err := ic.compileFile(j, file)
		if err != nil {
			result.Errors = append(result.Errors, cerrors.NewCompilerError(
				cerrors.PhaseIO, cerrors.ErrIOFailure, err.Error(),
				cerrors.SourceLocation{File: file}, cerrors.Error))
			continue
		}
		ic.cache[file] = res
		ic.graph.AddModule(moduleNameFor(file))
		if res.Diagnostics != nil {
			result.Errors = append(result.Errors, res.Diagnostics.GetErrors()...)
		}
	}

	result.Duration = time.Since(start)
	if len(result.Errors) > 0 {
		return result, fmt.Errorf("incremental build failed with %d error(s)", len(result.Errors))
	}

	result.Success = true
	ic.lastCompile = time.Now()
	return result, nil
}

func (ic *IncrementalCompiler) compileFile(j *job.Job, file string) (*job.Result, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	req := job.Request{
		Source:   string(source),
		File:     file,
		Language: ic.language,
		Table:    ic.table,
		Mode:     job.ModeCheck,
	}
	return j.Run(context.Background(), req)
}

// FullBuild clears the cache and rechecks every .seen file under src/.
func (ic *IncrementalCompiler) FullBuild() (*CompileResult, error) {
	ic.cache = make(map[string]*job.Result)
	ic.graph = moduledeps.New()

	files, err := findSeenFiles("src")
	if err != nil {
		return nil, fmt.Errorf("failed to find %s files: %w", seenExt, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in src/ directory", seenExt)
	}

	return ic.IncrementalBuild(files)
}

// ClearCache drops every cached result.
func (ic *IncrementalCompiler) ClearCache() {
	ic.cache = make(map[string]*job.Result)
	ic.graph = moduledeps.New()
}

// CompilationOrder exposes the current module graph's topological order
// (spec.md 4.J), for a driver that wants to schedule re-checks once
// cross-file dependencies exist.
func (ic *IncrementalCompiler) CompilationOrder() ([]string, bool) {
	return ic.graph.CompilationOrder()
}

func moduleNameFor(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, seenExt)
}

// Watch runs fsnotify over roots until ctx is cancelled, debouncing bursts
// of filesystem events into batches and feeding each batch through
// IncrementalBuild. It folds in the ignore-pattern and debounce plumbing
// that a generic file watcher would otherwise need, since here it only
// ever needs to recognise one thing: a change to a .seen file under one
// of roots.
func (ic *IncrementalCompiler) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(roots)
	if err != nil {
		return fmt.Errorf("failed to find directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		ic.logger.Debug("watching directory", zap.String("dir", dir))
	}

	ic.mu.Lock()
	ic.pending = make(map[string]struct{})
	ic.mu.Unlock()
	defer func() {
		ic.mu.Lock()
		if ic.timer != nil {
			ic.timer.Stop()
		}
		ic.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnore(event.Name) {
				continue
			}
			if filepath.Ext(event.Name) != seenExt {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			ic.logger.Debug("file changed", zap.String("file", event.Name))
			ic.debounce(ctx, event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ic.logger.Warn("watcher error", zap.Error(watchErr))
		}
	}
}

// debounce accumulates file into the pending batch and (re)arms a timer
// that fires an IncrementalBuild over the whole batch after
// debounceWindow of quiet.
func (ic *IncrementalCompiler) debounce(ctx context.Context, file string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.pending[file] = struct{}{}
	if ic.timer != nil {
		ic.timer.Stop()
	}
	ic.timer = time.AfterFunc(debounceWindow, func() { ic.flush(ctx) })
}

func (ic *IncrementalCompiler) flush(ctx context.Context) {
	ic.mu.Lock()
	if len(ic.pending) == 0 {
		ic.mu.Unlock()
		return
	}
	files := make([]string, 0, len(ic.pending))
	for f := range ic.pending {
		files = append(files, f)
	}
	ic.pending = make(map[string]struct{})
	ic.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	result, err := ic.IncrementalBuild(files)
	if err != nil {
		ic.logger.Warn("incremental rebuild failed", zap.Error(err))
	}
	if ic.OnRebuild != nil {
		ic.OnRebuild(result)
	}
}

// watchDirs resolves the project directories fsnotify should watch: the
// given roots that exist as directories, or "." when none of them do.
func watchDirs(roots []string) ([]string, error) {
	dirs := make([]string, 0, len(roots))
	for _, dir := range roots {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		dirs = append(dirs, ".")
	}
	return dirs, nil
}

// shouldIgnore reports whether path is an editor or VCS artifact that
// never carries Seen source, independent of its extension.
func shouldIgnore(path string) bool {
	if strings.Contains(path, string(filepath.Separator)+"build"+string(filepath.Separator)) || strings.HasPrefix(path, "build"+string(filepath.Separator)) {
		return true
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, pattern := range ignoredBasenames {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func findSeenFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == seenExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
