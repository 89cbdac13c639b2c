package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"ember/internal/binapi"
	"ember/internal/diag"
	"ember/internal/meta"
	"ember/internal/observ"
	"ember/internal/source"
)

// Options configure unit processing.
type Options struct {
	// Strict escalates ad-hoc accessor warnings to errors.
	Strict bool
	// MaxDiagnostics bounds the per-unit diagnostic bag; 0 means default.
	MaxDiagnostics int
	// Cache, when set, skips units whose input digest was already
	// processed and stores fresh results.
	Cache *meta.DiskCache
	// OutDir, when non-empty, receives the processed payload under the
	// input's base name.
	OutDir string
	// Sink receives progress events; nil disables them.
	Sink ProgressSink
}

const defaultMaxDiagnostics = 100

// UnitResult aggregates everything the pass produced for one unit.
type UnitResult struct {
	Path      string
	Unit      string
	Bag       *diag.Bag
	Files     *source.FileSet
	Decisions []binapi.Decision
	Accessors []*binapi.Entry
	Payload   *meta.UnitPayload
	Timing    observ.Report
	FromCache bool
}

// ProcessUnit runs the full pass over one unit payload: load, promote,
// rewrite, emit. Diagnostics land in the result bag; the returned error
// covers only IO and payload failures.
func (o Options) ProcessUnit(path string) (*UnitResult, error) {
	timer := observ.NewTimer()
	res := &UnitResult{
		Path: path,
		Bag:  diag.NewBag(o.maxDiagnostics()),
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	o.emit(Event{Unit: path, Stage: StageLoad, Status: StatusWorking})
	loadStart := time.Now()
	phase := timer.Begin(string(StageLoad))

	digest, err := meta.HashFile(path)
	if err != nil {
		o.emit(Event{Unit: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, err
	}
	if o.Cache != nil {
		var cached meta.UnitPayload
		if hit, err := o.Cache.Get(digest, &cached); err == nil && hit {
			timer.End(phase, "cache hit")
			res.Unit = cached.Unit
			res.Payload = &cached
			res.FromCache = true
			res.Timing = timer.Report()
			o.emit(Event{Unit: path, Stage: StageEmit, Status: StatusDone, Elapsed: time.Since(loadStart)})
			return res, nil
		}
	}

	payload, err := meta.LoadPayload(path)
	if err != nil {
		o.emit(Event{Unit: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, err
	}
	unit, err := meta.Materialize(payload, nil)
	if err != nil {
		o.emit(Event{Unit: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	timer.End(phase, fmt.Sprintf("%d classes, %d decls", unit.Table.Classes.Len(), unit.Table.Decls.Len()))
	o.emit(Event{Unit: path, Stage: StageLoad, Status: StatusDone, Elapsed: time.Since(loadStart)})
	res.Unit = unit.Name
	res.Files = unit.Files

	// Registry and advisor are strictly per unit: cross-unit accessor
	// sharing is out of scope, other units' declarations arrive as
	// foreign classes in the payload.
	registry := binapi.NewRegistry(unit.Table)
	advisor := binapi.NewAdvisor(unit.Table, reporter, o.Strict)

	o.emit(Event{Unit: path, Stage: StagePromote, Status: StatusWorking})
	promoteStart := time.Now()
	phase = timer.Begin(string(StagePromote))
	binapi.NewPromoter(unit.Table, registry, advisor, reporter).Run()
	timer.End(phase, fmt.Sprintf("%d accessors", registry.Len()))
	o.emit(Event{Unit: path, Stage: StagePromote, Status: StatusDone, Elapsed: time.Since(promoteStart)})

	o.emit(Event{Unit: path, Stage: StageRewrite, Status: StatusWorking})
	rewriteStart := time.Now()
	phase = timer.Begin(string(StageRewrite))
	rewriter := binapi.NewRewriter(unit.Table, registry, advisor, reporter)
	res.Decisions = rewriter.RewriteAll(unit.Bodies)
	timer.End(phase, fmt.Sprintf("%d sites", len(res.Decisions)))
	o.emit(Event{Unit: path, Stage: StageRewrite, Status: StatusDone, Elapsed: time.Since(rewriteStart)})

	o.emit(Event{Unit: path, Stage: StageEmit, Status: StatusWorking})
	emitStart := time.Now()
	phase = timer.Begin(string(StageEmit))
	res.Accessors = registry.Entries()
	res.Payload = meta.BuildPayload(unit, res.Accessors)
	if o.OutDir != "" {
		out := filepath.Join(o.OutDir, filepath.Base(path))
		if err := meta.SavePayload(out, res.Payload); err != nil {
			o.emit(Event{Unit: path, Stage: StageEmit, Status: StatusError, Err: err})
			return nil, err
		}
	}
	if o.Cache != nil && !res.Bag.HasErrors() {
		// Units with errors are reprocessed next time on purpose.
		if err := o.Cache.Put(digest, res.Payload); err != nil {
			o.emit(Event{Unit: path, Stage: StageEmit, Status: StatusError, Err: err})
			return nil, err
		}
	}
	timer.End(phase, "")
	o.emit(Event{Unit: path, Stage: StageEmit, Status: StatusDone, Elapsed: time.Since(emitStart)})

	res.Bag.Sort()
	res.Timing = timer.Report()
	return res, nil
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return defaultMaxDiagnostics
}

func (o Options) emit(evt Event) {
	if o.Sink != nil {
		o.Sink.OnEvent(evt)
	}
}
