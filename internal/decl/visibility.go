package decl

// Visibility describes how widely a declaration can be referenced.
// The order is from narrowest to widest; the promoter only ever moves a
// declaration toward VisPublic, never back.
type Visibility uint8

const (
	// VisPrivateInstance restricts access to code of the exact same instance.
	VisPrivateInstance Visibility = iota
	// VisPrivateScope restricts access to the enclosing lexical scope chain.
	VisPrivateScope
	// VisProtected allows the owning class and its subclasses.
	VisProtected
	// VisPackage allows the owning package within the same unit.
	VisPackage
	// VisPublic allows any context.
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivateInstance:
		return "private[this]"
	case VisPrivateScope:
		return "private"
	case VisProtected:
		return "protected"
	case VisPackage:
		return "package"
	case VisPublic:
		return "public"
	default:
		return "invalid"
	}
}

// WiderThan reports whether v grants access in strictly more contexts than other.
func (v Visibility) WiderThan(other Visibility) bool {
	return v > other
}
