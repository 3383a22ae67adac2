// internal/pipeline/pipeline.go
//
// The driver sequences the documentation build: load both requirement
// collections and the diagram sources, run the traceability check and the
// three remote renders (independent of each other, so they run in
// parallel), then compose and write the site. It carries no business
// logic of its own.

package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"docsmith/internal/config"
	"docsmith/internal/diagram"
	"docsmith/internal/logging"
	"docsmith/internal/requirement"
	"docsmith/internal/site"
	"docsmith/internal/trace"
)

// Stage identifies one step of the build for progress reporting.
type Stage string

const (
	StageLoad     Stage = "load"
	StageValidate Stage = "validate"
	StageRender   Stage = "render"
	StageCompose  Stage = "compose"
)

// Event is a progress notification. Detail carries the diagram kind for
// render events.
type Event struct {
	Stage  Stage
	Detail string
	Done   bool
}

// Observer receives progress events. Validate and render run in
// parallel, so the observer may be called from multiple goroutines and
// their events may interleave; each stage's start precedes its done.
type Observer func(Event)

// Result is the outcome of a completed run. A run that returns a Result
// produced a site; whether it passed depends on the report.
type Result struct {
	HighLevel requirement.Collection
	Software  requirement.Collection
	Report    trace.Report
	Diagrams  []diagram.Rendered
	Pages     int
	OutputDir string
}

// Success reports whether the build passed: parse and IO succeeded (or a
// Result would not exist) and validation found no errors. Render
// fallbacks never fail a build.
func (r Result) Success() bool {
	return r.Report.Valid()
}

// FallbackCount returns how many diagrams used the fallback path.
func (r Result) FallbackCount() int {
	n := 0
	for _, d := range r.Diagrams {
		if d.Mode == diagram.ModeFallback {
			n++
		}
	}
	return n
}

// Pipeline wires the stages together for one project.
type Pipeline struct {
	cfg      *config.Config
	renderer diagram.Renderer
	log      *logging.Logger
	observe  Observer
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithLogger attaches the build log.
func WithLogger(log *logging.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithObserver attaches a progress observer.
func WithObserver(observe Observer) Option {
	return func(p *Pipeline) { p.observe = observe }
}

// New prepares a pipeline. The renderer is injected so the build command,
// offline mode and tests can choose the remote policy.
func New(cfg *config.Config, renderer diagram.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, renderer: renderer}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run executes the full build. A returned error means no site was
// produced: a ParseError from either collection, unreadable diagram
// sources, or an output write failure. Validation errors do NOT produce
// an error here; they are in the Result for the caller to judge.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result, sources, err := p.load()
	if err != nil {
		return Result{}, err
	}

	report, rendered := p.validateAndRender(ctx, result.HighLevel, result.Software, sources)
	result.Report = report
	result.Diagrams = rendered

	p.emit(Event{Stage: StageCompose})
	docs, err := site.Compose(site.Input{
		HighLevel: result.HighLevel,
		Software:  result.Software,
		Report:    result.Report,
		Diagrams:  result.Diagrams,
	})
	if err != nil {
		return Result{}, err
	}
	if err := site.Write(p.cfg.OutputDir, docs); err != nil {
		return Result{}, err
	}
	result.Pages = len(docs)
	result.OutputDir = p.cfg.OutputDir
	p.emit(Event{Stage: StageCompose, Done: true})
	p.logf("composed %d pages into %s", len(docs), p.cfg.OutputDir)

	return result, nil
}

// Check runs the loader and validator only. It is the pre-commit gate:
// no network, no site writes.
func (p *Pipeline) Check(ctx context.Context) (Result, error) {
	_ = ctx
	p.emit(Event{Stage: StageLoad})
	result, err := p.loadRequirements()
	if err != nil {
		return Result{}, err
	}
	p.emit(Event{Stage: StageLoad, Done: true})
	p.emit(Event{Stage: StageValidate})
	result.Report = trace.Validate(result.HighLevel, result.Software)
	p.emit(Event{Stage: StageValidate, Done: true})
	p.logf("validated: %d error(s), %d warning(s)", result.Report.ErrorCount(), result.Report.WarningCount())
	return result, nil
}

func (p *Pipeline) load() (Result, []diagram.Source, error) {
	p.emit(Event{Stage: StageLoad})
	result, err := p.loadRequirements()
	if err != nil {
		return Result{}, nil, err
	}
	sources, err := diagram.LoadSources(p.cfg.ArchitectureDir)
	if err != nil {
		p.logf("load failed: %v", err)
		return Result{}, nil, err
	}
	p.emit(Event{Stage: StageLoad, Done: true})
	return result, sources, nil
}

func (p *Pipeline) loadRequirements() (Result, error) {
	var result Result
	high, err := requirement.LoadCollection(p.cfg.HighLevelPath, requirement.TierHighLevel)
	if err != nil {
		p.logf("load failed: %v", err)
		return Result{}, err
	}
	soft, err := requirement.LoadCollection(p.cfg.SoftwarePath, requirement.TierSoftware)
	if err != nil {
		p.logf("load failed: %v", err)
		return Result{}, err
	}
	result.HighLevel = high
	result.Software = soft
	p.logf("loaded %d high-level and %d software requirements", high.Len(), soft.Len())
	return result, nil
}

// validateAndRender runs the traceability check and the three diagram
// renders concurrently. They share no state; the join point is here, and
// the composer only runs after it.
func (p *Pipeline) validateAndRender(ctx context.Context, high, soft requirement.Collection, sources []diagram.Source) (trace.Report, []diagram.Rendered) {
	var report trace.Report
	rendered := make([]diagram.Rendered, len(sources))

	var group errgroup.Group
	group.Go(func() error {
		p.emit(Event{Stage: StageValidate})
		report = trace.Validate(high, soft)
		p.emit(Event{Stage: StageValidate, Done: true})
		return nil
	})
	for i := range sources {
		index := i
		src := sources[i]
		group.Go(func() error {
			p.emit(Event{Stage: StageRender, Detail: string(src.Kind)})
			rendered[index] = diagram.RenderSource(ctx, p.renderer, src)
			p.emit(Event{Stage: StageRender, Detail: string(src.Kind), Done: true})
			return nil
		})
	}
	// Renders fold failures into fallbacks and the validator cannot fail,
	// so Wait only synchronizes.
	_ = group.Wait()

	for _, d := range rendered {
		if d.Mode == diagram.ModeFallback {
			p.logf("render %s: fallback (%s)", d.Kind, d.Reason)
		} else {
			p.logf("render %s: %s", d.Kind, d.URL)
		}
	}
	p.logf("validated: %d error(s), %d warning(s)", report.ErrorCount(), report.WarningCount())
	return report, rendered
}

func (p *Pipeline) emit(ev Event) {
	if p.observe != nil {
		p.observe(ev)
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.log != nil {
		p.log.Printf(format, args...)
	}
}

// Summary is a one-line digest for logs and plain terminal output.
func (r Result) Summary() string {
	verdict := "PASS"
	if !r.Success() {
		verdict = "FAIL"
	}
	return fmt.Sprintf("%s: %d error(s), %d warning(s), %d diagram fallback(s)",
		verdict, r.Report.ErrorCount(), r.Report.WarningCount(), r.FallbackCount())
}
