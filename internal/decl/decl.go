package decl

import (
	"ember/internal/source"
)

// DeclKind classifies the declaration forms the binary-surface pass cares about.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclMethod
	DeclValue
	DeclLazyValue
	DeclVariable
	DeclObject
	DeclGiven
)

func (k DeclKind) String() string {
	switch k {
	case DeclMethod:
		return "method"
	case DeclValue:
		return "value"
	case DeclLazyValue:
		return "lazy value"
	case DeclVariable:
		return "variable"
	case DeclObject:
		return "object"
	case DeclGiven:
		return "given"
	default:
		return "invalid"
	}
}

// Annot encodes the binary-surface annotations as flags for quick checks.
type Annot uint8

const (
	// AnnotBinaryAPI promotes the declaration to public in emitted output.
	AnnotBinaryAPI Annot = 1 << iota
	// AnnotBinaryAPIAccessor requests a stable forwarding accessor.
	AnnotBinaryAPIAccessor
)

// Strings returns a slice of textual annotation labels.
func (a Annot) Strings() []string {
	if a == 0 {
		return nil
	}
	labels := make([]string, 0, 2)
	if a&AnnotBinaryAPI != 0 {
		labels = append(labels, "binaryAPI")
	}
	if a&AnnotBinaryAPIAccessor != 0 {
		labels = append(labels, "binaryAPIAccessor")
	}
	return labels
}

// Decl describes a single declaration owned by a class.
// Overrides points at the superclass declaration this one overrides,
// resolved as an arena ID rather than a live pointer.
type Decl struct {
	Name      source.StringID
	Owner     ClassID
	Kind      DeclKind
	Vis       Visibility
	Annots    Annot
	Overrides DeclID
	Span      source.Span
	// Synthetic marks accessors materialized by the registry; they are
	// ordinary public declarations for the emitter but never carry
	// annotations themselves.
	Synthetic bool
	// Forwards is set on synthetic accessors: the declaration the accessor
	// forwards to.
	Forwards DeclID
}

// Class describes a class (or singleton object) that owns declarations.
// Parent is the superclass, Outer the lexically enclosing class; both are
// arena IDs, NoClassID at the respective roots.
type Class struct {
	Path    source.StringID // fully qualified name
	Package source.StringID
	Parent  ClassID
	Outer   ClassID
	Span    source.Span
	// Local is true for classes declared in the unit being compiled.
	// Foreign classes are read-only facts from other units.
	Local bool
	Decls []DeclID
}
