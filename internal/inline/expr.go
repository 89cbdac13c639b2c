package inline

import (
	"ember/internal/decl"
	"ember/internal/source"
)

// ExprKind classifies the expression forms an inlinable body can contain.
// The pass only needs enough structure to find and repoint references;
// anything richer stays with the front end.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	// ExprLit is an opaque literal or other leaf without references.
	ExprLit
	// ExprRef is a resolved reference to a declaration.
	ExprRef
	// ExprCall is a call of a resolved declaration with argument expressions.
	ExprCall
	// ExprBinary combines two operand expressions.
	ExprBinary
	// ExprBlock sequences its child expressions.
	ExprBlock
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "lit"
	case ExprRef:
		return "ref"
	case ExprCall:
		return "call"
	case ExprBinary:
		return "binary"
	case ExprBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Expr is a single node of an inlinable body.
// Target is the statically resolved declaration for ExprRef and ExprCall
// nodes. Via is filled by the rewriter when the reference must go through
// a synthesized accessor; NoDeclID means the reference stays direct.
type Expr struct {
	Kind   ExprKind
	Target decl.DeclID
	Via    decl.DeclID
	Args   []ExprID
	Op     string
	Span   source.Span
}

// HasRef reports whether the node kind carries a declaration reference.
func (e *Expr) HasRef() bool {
	return e.Kind == ExprRef || e.Kind == ExprCall
}
