package binapi

import (
	"ember/internal/decl"
	"ember/internal/inline"
)

// DecisionKind tags the outcome of rewriting one reference site.
type DecisionKind uint8

const (
	// NoAccessorNeeded leaves the reference direct: the target is public
	// or binary API.
	NoAccessorNeeded DecisionKind = iota
	// UseRegisteredAccessor reuses an annotation-driven accessor.
	UseRegisteredAccessor
	// SynthesizeAdHocAccessor created a new inline-driven accessor.
	SynthesizeAdHocAccessor
)

func (k DecisionKind) String() string {
	switch k {
	case NoAccessorNeeded:
		return "direct"
	case UseRegisteredAccessor:
		return "registered accessor"
	case SynthesizeAdHocAccessor:
		return "ad-hoc accessor"
	default:
		return "invalid"
	}
}

// Decision records how one reference site inside an inlinable body was
// rewritten. Decisions drive the tree rewrite and feed the advisor; the
// reference sites themselves are not persisted past the walk.
type Decision struct {
	Kind   DecisionKind
	Body   decl.DeclID // the inlinable definition whose body was walked
	Owner  decl.ClassID
	Site   inline.ExprID
	Target decl.DeclID
	Entry  *Entry // nil for NoAccessorNeeded
}
