package binapi

import (
	"errors"
	"fmt"

	"ember/internal/decl"
	"ember/internal/diag"
	"ember/internal/inline"
)

// Rewriter walks every inlinable body once, after the promoter, and decides
// per reference site whether the reference can stay direct, should go
// through a registered accessor or needs a fresh ad-hoc one.
//
// The correctness rule: inline bodies are copied into call sites that do
// not exist yet, so a reference may stay direct only if the target is
// guaranteed accessible from any future expansion context, i.e. public
// (which after promotion covers every binary-API declaration).
type Rewriter struct {
	table    *decl.Table
	registry *Registry
	advisor  *Advisor
	reporter diag.Reporter

	decisions     []Decision
	disabledNoted bool
}

// NewRewriter wires a rewriter to a unit's table and registry.
func NewRewriter(table *decl.Table, registry *Registry, advisor *Advisor, reporter diag.Reporter) *Rewriter {
	return &Rewriter{
		table:    table,
		registry: registry,
		advisor:  advisor,
		reporter: reporter,
	}
}

// RewriteAll processes every body and returns the decisions in walk order.
func (rw *Rewriter) RewriteAll(bodies []*inline.Body) []Decision {
	for _, b := range bodies {
		rw.rewriteBody(b)
	}
	return rw.decisions
}

// Decisions returns the decisions recorded so far.
func (rw *Rewriter) Decisions() []Decision { return rw.decisions }

func (rw *Rewriter) rewriteBody(b *inline.Body) {
	b.WalkRefs(func(id inline.ExprID, e *inline.Expr) {
		rw.rewriteRef(b, id, e)
	})
}

func (rw *Rewriter) rewriteRef(b *inline.Body, site inline.ExprID, e *inline.Expr) {
	target := e.Target
	d := rw.table.Decl(target)
	if d == nil {
		diag.ReportError(rw.reporter, diag.MetaDanglingDeclRef, e.Span,
			fmt.Sprintf("inline body of '%s' references unknown declaration %d", rw.table.FullName(b.Decl), target)).
			Emit()
		return
	}

	if d.Vis == decl.VisPublic || rw.table.EffectiveBinaryAPI(target) {
		// Binary-API targets are public after promotion; the reference
		// stays a direct call and no accessor is introduced.
		e.Via = decl.NoDeclID
		rw.record(Decision{Kind: NoAccessorNeeded, Body: b.Decl, Owner: b.Owner, Site: site, Target: target})
		return
	}

	rw.checkOverrides(e, target)

	if entry, ok := rw.registry.Lookup(b.Owner, target); ok {
		e.Via = entry.Accessor
		rw.record(Decision{Kind: UseRegisteredAccessor, Body: b.Decl, Owner: b.Owner, Site: site, Target: target, Entry: entry})
		return
	}

	entry, err := rw.registry.GetOrCreate(b.Owner, target, ReasonInline)
	if err != nil {
		if errors.Is(err, ErrSynthesisDisabled) && !rw.disabledNoted {
			diag.ReportInfo(rw.reporter, diag.AccRegistryDisabled, e.Span,
				"remaining references are left direct; accessor synthesis stopped after a naming collision").
				Emit()
			rw.disabledNoted = true
		} else if !errors.Is(err, ErrSynthesisDisabled) {
			reportSynthesisError(rw.reporter, err, e.Span)
		}
		return
	}
	e.Via = entry.Accessor
	rw.record(Decision{Kind: SynthesizeAdHocAccessor, Body: b.Decl, Owner: b.Owner, Site: site, Target: target, Entry: entry})
}

// checkOverrides warns when the statically bound target is overridden by a
// declaration that is not binary API: the accessor forwards to the exact
// declaration present at definition time, not the dynamic override.
func (rw *Rewriter) checkOverrides(e *inline.Expr, target decl.DeclID) {
	for _, over := range rw.table.OverridesOf(target) {
		if rw.table.EffectiveBinaryAPI(over) {
			continue
		}
		od := rw.table.Decl(over)
		if od == nil {
			continue
		}
		builder := diag.ReportWarning(rw.reporter, diag.InlAmbiguousOverride, e.Span,
			fmt.Sprintf("'%s' is overridden by '%s', which is not binary API; the inline reference binds to the declared target", rw.table.FullName(target), rw.table.FullName(over)))
		builder.WithNote(od.Span, "override declared here")
		builder.Emit()
	}
}

func (rw *Rewriter) record(d Decision) {
	rw.decisions = append(rw.decisions, d)
	rw.advisor.Observe(d)
}
