package decl

// Context identifies the code location a reference is made from: the class
// whose body contains the reference and whether that class belongs to the
// same compilation unit as the table being queried.
type Context struct {
	Class    ClassID
	SameUnit bool
}

// Accessible reports whether the declaration can be referenced directly
// from the given context. Pure predicate: no side effects, no mutation.
//
// Rules, checked in order: public is always accessible; protected from the
// owning class and its subclasses; package-scoped from the same package
// within the same unit; private from the enclosing scope chain; instance
// private only from the owning class itself.
func Accessible(t *Table, id DeclID, from Context) bool {
	d := t.Decl(id)
	if d == nil {
		return false
	}
	switch d.Vis {
	case VisPublic:
		return true
	case VisProtected:
		return t.InheritsFrom(from.Class, d.Owner)
	case VisPackage:
		return from.SameUnit && t.SamePackage(from.Class, d.Owner)
	case VisPrivateScope:
		return t.EnclosedIn(from.Class, d.Owner)
	case VisPrivateInstance:
		return from.Class == d.Owner
	default:
		return false
	}
}

// AccessibleAnywhere reports whether the declaration can be referenced from
// an arbitrary, unknown future context. Inline bodies are copied to call
// sites that do not exist yet, so only public declarations qualify; every
// narrower visibility depends on where the copy lands.
func AccessibleAnywhere(t *Table, id DeclID) bool {
	d := t.Decl(id)
	return d != nil && d.Vis == VisPublic
}
