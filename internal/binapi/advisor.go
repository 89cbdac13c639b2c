package binapi

import (
	"fmt"

	"ember/internal/decl"
	"ember/internal/diag"
)

// Advisor is a pure observer over rewrite decisions. It warns whenever an
// inline body forced an ad-hoc accessor, so library authors can opt into a
// stable surface instead, and carries the promoter's no-effect advisories.
// It never mutates the table or the registry.
type Advisor struct {
	table    *decl.Table
	reporter diag.Reporter
	// strict escalates ad-hoc accessor warnings to errors.
	strict bool
}

// NewAdvisor wires an advisor to a unit's table.
func NewAdvisor(table *decl.Table, reporter diag.Reporter, strict bool) *Advisor {
	return &Advisor{table: table, reporter: reporter, strict: strict}
}

// Observe inspects one rewrite decision. Only ad-hoc synthesis produces a
// diagnostic: registered accessors are the stable, intended path.
func (a *Advisor) Observe(d Decision) {
	if a == nil || d.Kind != SynthesizeAdHocAccessor {
		return
	}
	target := a.table.Decl(d.Target)
	if target == nil {
		return
	}
	sev := diag.SevWarning
	if a.strict {
		sev = diag.SevError
	}
	msg := fmt.Sprintf(
		"inline body of '%s' references non-public '%s'; an ad-hoc accessor was synthesized, annotate the target with @binaryAPI or @binaryAPIAccessor to commit to a stable surface",
		a.table.FullName(d.Body), a.table.FullName(d.Target))
	diag.NewReportBuilder(a.reporter, sev, diag.InlAdHocAccessor, target.Span, msg).
		WithNote(target.Span, fmt.Sprintf("'%s' declared %s here", a.table.DeclName(d.Target), target.Vis)).
		Emit()
}

// AnnotationNoEffect records the advisory for a @binaryAPI annotation on an
// already-public declaration. Never an error: the annotation is redundant,
// not wrong.
func (a *Advisor) AnnotationNoEffect(id decl.DeclID) {
	if a == nil {
		return
	}
	d := a.table.Decl(id)
	if d == nil {
		return
	}
	diag.ReportInfo(a.reporter, diag.PromoAnnotationNoEffect, d.Span,
		fmt.Sprintf("'%s' is already public; @binaryAPI has no effect", a.table.FullName(id))).
		Emit()
}
