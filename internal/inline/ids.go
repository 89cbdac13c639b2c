package inline

// ExprID identifies an expression in a body's arena.
type ExprID uint32

const (
	// NoExprID marks the absence of an expression reference.
	NoExprID ExprID = 0
)

// IsValid reports whether the expression ID refers to an allocated node.
func (id ExprID) IsValid() bool { return id != NoExprID }
