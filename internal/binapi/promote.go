package binapi

import (
	"errors"
	"fmt"

	"ember/internal/decl"
	"ember/internal/diag"
	"ember/internal/source"
)

// Promoter widens annotated declarations to public visibility and
// materializes annotation-driven accessors. It runs exactly once per unit,
// before the inline rewriter, in topological class order so that
// override-driven promotion always sees already-promoted parents.
type Promoter struct {
	table    *decl.Table
	registry *Registry
	reporter diag.Reporter
	advisor  *Advisor
}

// NewPromoter wires a promoter to a unit's table and registry.
func NewPromoter(table *decl.Table, registry *Registry, advisor *Advisor, reporter diag.Reporter) *Promoter {
	return &Promoter{
		table:    table,
		registry: registry,
		reporter: reporter,
		advisor:  advisor,
	}
}

// Run performs the single promotion pass. Invalid annotation placements
// skip only the offending declaration; the pass itself always completes.
func (p *Promoter) Run() {
	for _, clsID := range p.table.ClassesTopo() {
		cls := p.table.Class(clsID)
		if cls == nil || !cls.Local {
			// Foreign classes are immutable facts read from other units.
			continue
		}
		for _, id := range cls.Decls {
			p.promoteDecl(clsID, id)
		}
	}
}

func (p *Promoter) promoteDecl(owner decl.ClassID, id decl.DeclID) {
	d := p.table.Decl(id)
	if d == nil || d.Synthetic {
		return
	}
	if d.Annots != 0 && !p.validatePlacement(id, d) {
		return
	}

	annotated := d.Annots&decl.AnnotBinaryAPI != 0
	inherited := !annotated && d.Overrides.IsValid() && p.table.EffectiveBinaryAPI(d.Overrides)
	if annotated || inherited {
		if d.Vis == decl.VisPublic {
			if annotated {
				p.advisor.AnnotationNoEffect(id)
			}
		} else {
			p.table.Widen(id, decl.VisPublic)
			if inherited {
				diag.ReportInfo(p.reporter, diag.PromoOverridePromoted, d.Span,
					fmt.Sprintf("'%s' is promoted to public because it overrides a binary-API declaration", p.table.FullName(id))).
					Emit()
			}
		}
	}

	if d.Annots&decl.AnnotBinaryAPIAccessor != 0 {
		// Unconditional: the accessor stays even when the declaration
		// itself becomes public, preserving a stable entry point for
		// callers compiled against the pre-promotion signature.
		before := p.registry.Len()
		entry, err := p.registry.GetOrCreate(owner, id, ReasonAnnotation)
		if err != nil {
			reportSynthesisError(p.reporter, err, d.Span)
		} else if p.registry.Len() > before {
			diag.ReportInfo(p.reporter, diag.PromoAccessorMaterialize, d.Span,
				fmt.Sprintf("accessor '%s' materialized for '%s'", p.table.DeclName(entry.Accessor), p.table.FullName(id))).
				Emit()
		}
	}
}

// validatePlacement rejects annotations on declarations that can never be
// part of a binary surface. Returns false when the declaration must be
// skipped.
func (p *Promoter) validatePlacement(id decl.DeclID, d *decl.Decl) bool {
	if d.Vis != decl.VisPrivateInstance {
		return true
	}
	labels := d.Annots.Strings()
	label := "binaryAPI"
	if len(labels) > 0 {
		label = labels[0]
	}
	diag.ReportError(p.reporter, diag.PromoInvalidPlacement, d.Span,
		fmt.Sprintf("@%s is not allowed on instance-private declaration '%s'", label, p.table.FullName(id))).
		Emit()
	return false
}

// reportSynthesisError translates registry failures into diagnostics.
// A collision is a hard error for the unit; the poisoned-registry sentinel
// that follows stays silent, the collision has already been reported.
func reportSynthesisError(r diag.Reporter, err error, span source.Span) {
	var collision *CollisionError
	switch {
	case errors.As(err, &collision):
		diag.ReportError(r, diag.AccNamingCollision, span, collision.Error()).Emit()
	case errors.Is(err, ErrSynthesisDisabled):
		// Reported once at the collision site.
	default:
		diag.ReportError(r, diag.MetaDanglingDeclRef, span, err.Error()).Emit()
	}
}
