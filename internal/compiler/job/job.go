// Package job drives one compilation end to end: lex, parse, typecheck,
// lower, optimize, and (optionally) emit LLVM IR. A Job owns every piece
// of state the run touches (source text, AST, typed AST, IR module,
// diagnostics) and releases it at the end of Run (spec.md 5: "Ownership:
// AST, typed AST, and IR are owned by the job and released at job end").
//
// Stages are synchronous and run in sequence with no suspension points
// (spec.md 5: "single-threaded cooperative per compilation job ...  no
// cancellation within a stage; job cancellation is observed only between
// stages"); ctx is checked once per stage boundary, never inside one.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	"github.com/seen-lang/seenc/internal/compiler/backend/llvm"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/ir"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
	"github.com/seen-lang/seenc/internal/compiler/lowering"
	"github.com/seen-lang/seenc/internal/compiler/parser"
	"github.com/seen-lang/seenc/internal/compiler/passes"
	"github.com/seen-lang/seenc/internal/compiler/typechecker"
)

// Stage names a phase of the pipeline, used for both zap fields and the
// Mode cutoff (Check stops after TypeCheck).
type Stage string

const (
	StageLex       Stage = "lex"
	StageParse     Stage = "parse"
	StageTypeCheck Stage = "type_check"
	StageLower     Stage = "lower"
	StageOptimize  Stage = "optimize"
	StageBackend   Stage = "backend"
)

// Mode selects how far the pipeline runs, mirroring the `check`/`build`
// CLI subcommands of spec.md 6.
type Mode int

const (
	// ModeCheck stops after type checking (no IR is produced).
	ModeCheck Mode = iota
	// ModeBuild runs the full pipeline through the LLVM backend.
	ModeBuild
)

// Request is the input to one compilation job.
type Request struct {
	Source   string
	File     string
	Language string // language tag resolved by internal/cli/config
	Table    *keyword.Table
	Mode     Mode
	Target   llvm.Target // only consulted when Mode == ModeBuild
}

// Result is everything a job produced, with diagnostics merged across
// every stage that ran (spec.md 7: "type checking ... continues to check
// subsequent items after recording an error").
type Result struct {
	JobID      uuid.UUID
	Program    *ast.Program
	Typed      *typechecker.TypedProgram
	Module     *ir.Module
	LLVMIR     string
	Diagnostics *cerrors.ErrorRecovery
	StoppedAt  Stage
}

// Job runs one compilation request under a shared logger. Job values are
// not safe for concurrent reuse; spawn one Job per compilation (spec.md
// 5: "multiple jobs may run in parallel over disjoint modules but do not
// share mutable state").
type Job struct {
	ID     uuid.UUID
	logger *zap.Logger
}

// New creates a job with a fresh ID, grounded on the teacher's
// uuid.New()-stamped job records (internal/web/jobs/job.go's NewJob).
func New(logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{ID: uuid.New(), logger: logger}
}

// Run executes req's pipeline, stopping early on a cancelled context
// (checked between stages only) or on the first stage whose diagnostics
// bag has fatal errors and that spec.md 7 marks as non-recoverable
// (TypeError still continues to the next item, but lowering is only
// attempted over a type-clean program).
func (j *Job) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	log := j.logger.With(zap.String("job_id", j.ID.String()), zap.String("file", req.File))
	log.Debug("job started")

	res := &Result{JobID: j.ID}

	tokens, diags := j.runLex(log, req)
	res.Diagnostics = diags
	if err := ctx.Err(); err != nil {
		res.StoppedAt = StageLex
		return res, err
	}

	prog, parseDiags := j.runParse(log, req, tokens)
	res.Program = prog
	res.Diagnostics = mergeDiagnostics(res.Diagnostics, parseDiags)
	if err := ctx.Err(); err != nil {
		res.StoppedAt = StageParse
		return res, err
	}

	typed, typeDiags := j.runTypeCheck(log, req, prog)
	res.Typed = typed
	res.Diagnostics = mergeDiagnostics(res.Diagnostics, typeDiags)
	res.StoppedAt = StageTypeCheck
	if req.Mode == ModeCheck {
		log.Debug("job finished", zap.Duration("elapsed", time.Since(start)), zap.String("stopped_at", string(res.StoppedAt)))
		return res, ctx.Err()
	}
	if res.Diagnostics.HasErrors() {
		// spec.md 7: "IR lowering requires a type-clean input"
		return res, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	module, lowerDiags := j.runLower(log, req, typed)
	res.Module = module
	res.Diagnostics = mergeDiagnostics(res.Diagnostics, lowerDiags)
	res.StoppedAt = StageLower
	if res.Diagnostics.HasErrors() {
		return res, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	j.runOptimize(log, module)
	res.StoppedAt = StageOptimize
	if err := ctx.Err(); err != nil {
		return res, err
	}

	llvmIR, err := j.runBackend(log, req, module)
	res.LLVMIR = llvmIR
	res.StoppedAt = StageBackend
	if err != nil {
		res.Diagnostics.Recover(cerrors.NewCompilerError(
			cerrors.PhaseBackend, cerrors.ErrBackendEmitFailed, err.Error(),
			cerrors.SourceLocation{File: req.File}, cerrors.Error))
	}

	log.Debug("job finished", zap.Duration("elapsed", time.Since(start)), zap.String("stopped_at", string(res.StoppedAt)))
	return res, ctx.Err()
}

func (j *Job) runLex(log *zap.Logger, req Request) ([]lexer.Token, *cerrors.ErrorRecovery) {
	log.Debug("stage started", zap.String("stage", string(StageLex)))
	l := lexer.New(req.Source, req.File, 0, req.Language, req.Table)
	tokens, lexErrs := l.Tokenize()
	diags := cerrors.NewErrorRecovery()
	diags.RecoverMultiple(lexErrs)
	return tokens, diags
}

func (j *Job) runParse(log *zap.Logger, req Request, tokens []lexer.Token) (*ast.Program, *cerrors.ErrorRecovery) {
	log.Debug("stage started", zap.String("stage", string(StageParse)))
	p := parser.New(tokens, req.File)
	if req.Table != nil {
		p = p.WithLanguage(req.Language, req.Table)
	}
	prog, diags := p.Parse()
	return prog, diags
}

func (j *Job) runTypeCheck(log *zap.Logger, req Request, prog *ast.Program) (*typechecker.TypedProgram, *cerrors.ErrorRecovery) {
	log.Debug("stage started", zap.String("stage", string(StageTypeCheck)))
	return typechecker.CheckProgram(prog, req.File)
}

func (j *Job) runLower(log *zap.Logger, req Request, typed *typechecker.TypedProgram) (*ir.Module, *cerrors.ErrorRecovery) {
	log.Debug("stage started", zap.String("stage", string(StageLower)))
	return lowering.Lower(typed, moduleNameFor(req.File), req.File)
}

func (j *Job) runOptimize(log *zap.Logger, module *ir.Module) {
	log.Debug("stage started", zap.String("stage", string(StageOptimize)))
	passes.RunModule(module)
}

func (j *Job) runBackend(log *zap.Logger, req Request, module *ir.Module) (string, error) {
	log.Debug("stage started", zap.String("stage", string(StageBackend)))
	e := llvm.NewEmitter(req.Target)
	return e.Emit(module)
}

func moduleNameFor(file string) string {
	if file == "" {
		return "main"
	}
	return file
}

// mergeDiagnostics folds b's entries into a, returning a. Either may be
// nil on first call.
func mergeDiagnostics(a, b *cerrors.ErrorRecovery) *cerrors.ErrorRecovery {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	a.RecoverMultiple(b.GetAll())
	return a
}

// ExitCode maps a Result onto spec.md 6's host-driver exit codes: 0
// success, 1 compile errors, 2 lex/parse-only errors for check mode. The
// distinction is drawn from which phases actually recorded errors, not
// from StoppedAt: lex and parse errors never abort the run (spec.md 7),
// so a lex error followed by a clean type check must still report 2.
func (r *Result) ExitCode() int {
	if !r.Diagnostics.HasErrors() {
		return 0
	}
	if r.Diagnostics.RecoverableOnly() {
		return 2
	}
	return 1
}

func (r *Result) String() string {
	return fmt.Sprintf("job %s stopped at %s (%s)", r.JobID, r.StoppedAt, r.Diagnostics.Summary())
}
