package decl

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Classes, Decls uint }

// Table aggregates the class and declaration arenas plus shared resources.
// It exclusively owns every Declaration; other components refer to entries
// by arena ID only.
type Table struct {
	Classes *Classes
	Decls   *Decls
	Strings *source.Interner

	byPath       map[source.StringID]ClassID
	overriddenBy map[DeclID][]DeclID
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	classCap, err := safecast.Conv[uint32](h.Classes)
	if err != nil {
		panic(fmt.Errorf("class capacity overflow: %w", err))
	}
	declCap, err := safecast.Conv[uint32](h.Decls)
	if err != nil {
		panic(fmt.Errorf("declaration capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Classes:      NewClasses(classCap),
		Decls:        NewDecls(declCap),
		Strings:      strings,
		byPath:       make(map[source.StringID]ClassID),
		overriddenBy: make(map[DeclID][]DeclID),
	}
}

// NewClass allocates a class and indexes it by fully qualified path.
func (t *Table) NewClass(cls *Class) ClassID {
	id := t.Classes.New(cls)
	if cls.Path != source.NoStringID {
		t.byPath[cls.Path] = id
	}
	return id
}

// NewDecl allocates a declaration, appends it to its owner's decl list and
// records its override edge in the reverse index.
func (t *Table) NewDecl(d *Decl) DeclID {
	id := t.Decls.New(d)
	if owner := t.Classes.Get(d.Owner); owner != nil {
		owner.Decls = append(owner.Decls, id)
	}
	if d.Overrides.IsValid() {
		t.overriddenBy[d.Overrides] = append(t.overriddenBy[d.Overrides], id)
	}
	return id
}

// Class returns the class for an ID, nil for invalid IDs.
func (t *Table) Class(id ClassID) *Class { return t.Classes.Get(id) }

// Decl returns the declaration for an ID, nil for invalid IDs.
func (t *Table) Decl(id DeclID) *Decl { return t.Decls.Get(id) }

// ClassByPath resolves a fully qualified class path to its ID.
func (t *Table) ClassByPath(path source.StringID) (ClassID, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

// ClassPath returns the fully qualified name of a class, empty if unknown.
func (t *Table) ClassPath(id ClassID) string {
	cls := t.Classes.Get(id)
	if cls == nil {
		return ""
	}
	path, _ := t.Strings.Lookup(cls.Path)
	return path
}

// DeclName returns the simple name of a declaration, empty if unknown.
func (t *Table) DeclName(id DeclID) string {
	d := t.Decls.Get(id)
	if d == nil {
		return ""
	}
	name, _ := t.Strings.Lookup(d.Name)
	return name
}

// FullName returns "<owner path>.<simple name>" for diagnostics.
func (t *Table) FullName(id DeclID) string {
	d := t.Decls.Get(id)
	if d == nil {
		return ""
	}
	return t.ClassPath(d.Owner) + "." + t.DeclName(id)
}

// InheritsFrom reports whether sub is ancestor or a (transitive) subclass
// of ancestor.
func (t *Table) InheritsFrom(sub, ancestor ClassID) bool {
	for id := sub; id.IsValid(); {
		if id == ancestor {
			return true
		}
		cls := t.Classes.Get(id)
		if cls == nil {
			return false
		}
		id = cls.Parent
	}
	return false
}

// EnclosedIn reports whether inner is outer or lexically nested inside outer.
func (t *Table) EnclosedIn(inner, outer ClassID) bool {
	for id := inner; id.IsValid(); {
		if id == outer {
			return true
		}
		cls := t.Classes.Get(id)
		if cls == nil {
			return false
		}
		id = cls.Outer
	}
	return false
}

// SamePackage reports whether both classes belong to the same package.
func (t *Table) SamePackage(a, b ClassID) bool {
	ca, cb := t.Classes.Get(a), t.Classes.Get(b)
	if ca == nil || cb == nil {
		return false
	}
	return ca.Package == cb.Package
}

// EffectiveBinaryAPI reports whether the declaration is binary API, either
// by direct annotation or by overriding an annotated declaration somewhere
// up the override chain.
func (t *Table) EffectiveBinaryAPI(id DeclID) bool {
	for cur := id; cur.IsValid(); {
		d := t.Decls.Get(cur)
		if d == nil {
			return false
		}
		if d.Annots&AnnotBinaryAPI != 0 {
			return true
		}
		cur = d.Overrides
	}
	return false
}

// OverridesOf returns the declarations that directly override id.
func (t *Table) OverridesOf(id DeclID) []DeclID {
	return t.overriddenBy[id]
}

// Widen raises a declaration's visibility. Narrowing is refused: the
// binary-surface contract only ever widens.
func (t *Table) Widen(id DeclID, vis Visibility) bool {
	d := t.Decls.Get(id)
	if d == nil {
		return false
	}
	if !vis.WiderThan(d.Vis) {
		return false
	}
	d.Vis = vis
	return true
}

// ClassesTopo returns all class IDs with parents ordered before their
// subclasses. Ties are broken by allocation order, so the result is
// deterministic for a given table.
func (t *Table) ClassesTopo() []ClassID {
	n := t.Classes.Len()
	order := make([]ClassID, 0, n)
	visited := make(map[ClassID]bool, n)
	var visit func(id ClassID)
	visit = func(id ClassID) {
		if !id.IsValid() || visited[id] {
			return
		}
		visited[id] = true
		if cls := t.Classes.Get(id); cls != nil && cls.Parent.IsValid() {
			visit(cls.Parent)
		}
		order = append(order, id)
	}
	for i := 1; i <= n; i++ {
		visit(ClassID(safeClassIndex(i)))
	}
	return order
}

func safeClassIndex(i int) uint32 {
	value, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("class index overflow: %w", err))
	}
	return value
}
