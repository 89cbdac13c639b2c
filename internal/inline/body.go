package inline

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/decl"
)

// Body is one inlinable definition's expression tree. Owner is the class
// the body is declared in: that class is the expansion context recorded
// for every reference site inside the body.
type Body struct {
	Owner decl.ClassID
	Decl  decl.DeclID
	Root  ExprID

	exprs []Expr
}

// NewBody creates an empty body with an optional node capacity hint.
func NewBody(owner decl.ClassID, declID decl.DeclID, capacity uint32) *Body {
	if capacity == 0 {
		capacity = 8
	}
	return &Body{
		Owner: owner,
		Decl:  declID,
		exprs: make([]Expr, 1, capacity+1), // index 0 reserved for NoExprID
	}
}

// Add allocates an expression node and returns its ID.
func (b *Body) Add(e Expr) ExprID {
	value, err := safecast.Conv[uint32](len(b.exprs))
	if err != nil {
		panic(fmt.Errorf("inline body arena overflow: %w", err))
	}
	id := ExprID(value)
	b.exprs = append(b.exprs, e)
	return id
}

// Get returns the expression pointer or nil for invalid IDs.
func (b *Body) Get(id ExprID) *Expr {
	if !id.IsValid() || int(id) >= len(b.exprs) {
		return nil
	}
	return &b.exprs[id]
}

// Len reports the number of nodes excluding the sentinel.
func (b *Body) Len() int { return len(b.exprs) - 1 }

// Exprs exposes the node storage without the sentinel.
func (b *Body) Exprs() []Expr {
	if len(b.exprs) <= 1 {
		return nil
	}
	return b.exprs[1:]
}

// WalkRefs visits every reference-carrying node in a preorder walk from
// Root. The callback may mutate the node through the pointer; the tree
// shape itself is fixed during the walk.
func (b *Body) WalkRefs(fn func(ExprID, *Expr)) {
	b.walk(b.Root, fn)
}

func (b *Body) walk(id ExprID, fn func(ExprID, *Expr)) {
	e := b.Get(id)
	if e == nil {
		return
	}
	if e.HasRef() {
		fn(id, e)
	}
	for _, arg := range e.Args {
		b.walk(arg, fn)
	}
}
