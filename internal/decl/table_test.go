package decl

import (
	"testing"

	"ember/internal/source"
)

func testTable() *Table {
	return NewTable(Hints{}, nil)
}

func addClass(t *Table, path string, parent, outer ClassID) ClassID {
	return t.NewClass(&Class{
		Path:    t.Strings.Intern(path),
		Package: t.Strings.Intern("lib"),
		Parent:  parent,
		Outer:   outer,
		Span:    source.Span{File: 1},
		Local:   true,
	})
}

func addMethod(t *Table, owner ClassID, name string, vis Visibility) DeclID {
	return t.NewDecl(&Decl{
		Name:  t.Strings.Intern(name),
		Owner: owner,
		Kind:  DeclMethod,
		Vis:   vis,
		Span:  source.Span{File: 1},
	})
}

func TestTableOwnership(t *testing.T) {
	table := testTable()
	base := addClass(table, "lib.Base", NoClassID, NoClassID)
	m := addMethod(table, base, "m", VisProtected)

	cls := table.Class(base)
	if len(cls.Decls) != 1 || cls.Decls[0] != m {
		t.Fatalf("expected decl %v registered on owner, got %v", m, cls.Decls)
	}
	if got := table.FullName(m); got != "lib.Base.m" {
		t.Fatalf("FullName = %q", got)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestClassesTopoParentsFirst(t *testing.T) {
	table := testTable()
	// Allocate the subclass before its parent to make ordering matter.
	sub := table.NewClass(&Class{
		Path:    table.Strings.Intern("lib.Sub"),
		Package: table.Strings.Intern("lib"),
		Parent:  ClassID(2),
		Local:   true,
	})
	base := addClass(table, "lib.Base", NoClassID, NoClassID)
	if base != ClassID(2) {
		t.Fatalf("unexpected base ID %v", base)
	}

	order := table.ClassesTopo()
	posBase, posSub := -1, -1
	for i, id := range order {
		switch id {
		case base:
			posBase = i
		case sub:
			posSub = i
		}
	}
	if posBase == -1 || posSub == -1 {
		t.Fatalf("topo order missing classes: %v", order)
	}
	if posBase > posSub {
		t.Fatalf("parent ordered after subclass: %v", order)
	}
}

func TestInheritsFromAndEnclosedIn(t *testing.T) {
	table := testTable()
	base := addClass(table, "lib.Base", NoClassID, NoClassID)
	mid := addClass(table, "lib.Mid", base, NoClassID)
	sub := addClass(table, "lib.Sub", mid, NoClassID)
	inner := addClass(table, "lib.Base.Inner", NoClassID, base)

	if !table.InheritsFrom(sub, base) {
		t.Fatalf("sub should inherit from base transitively")
	}
	if table.InheritsFrom(base, sub) {
		t.Fatalf("inheritance must not go downward")
	}
	if !table.EnclosedIn(inner, base) {
		t.Fatalf("inner should be enclosed in base")
	}
	if table.EnclosedIn(base, inner) {
		t.Fatalf("enclosure must not go inward")
	}
}

func TestWidenIsMonotonic(t *testing.T) {
	table := testTable()
	cls := addClass(table, "lib.C", NoClassID, NoClassID)
	m := addMethod(table, cls, "m", VisProtected)

	if !table.Widen(m, VisPublic) {
		t.Fatalf("widening protected to public should succeed")
	}
	if table.Widen(m, VisProtected) {
		t.Fatalf("narrowing public to protected must be refused")
	}
	if table.Decl(m).Vis != VisPublic {
		t.Fatalf("visibility changed by refused narrowing")
	}
}

func TestEffectiveBinaryAPIThroughOverrideChain(t *testing.T) {
	table := testTable()
	base := addClass(table, "lib.Base", NoClassID, NoClassID)
	mid := addClass(table, "lib.Mid", base, NoClassID)
	sub := addClass(table, "lib.Sub", mid, NoClassID)

	root := table.NewDecl(&Decl{
		Name:   table.Strings.Intern("m"),
		Owner:  base,
		Kind:   DeclMethod,
		Vis:    VisProtected,
		Annots: AnnotBinaryAPI,
	})
	midM := table.NewDecl(&Decl{
		Name:      table.Strings.Intern("m"),
		Owner:     mid,
		Kind:      DeclMethod,
		Vis:       VisProtected,
		Overrides: root,
	})
	subM := table.NewDecl(&Decl{
		Name:      table.Strings.Intern("m"),
		Owner:     sub,
		Kind:      DeclMethod,
		Vis:       VisProtected,
		Overrides: midM,
	})

	if !table.EffectiveBinaryAPI(subM) {
		t.Fatalf("binary API must be inherited through the override chain")
	}
	other := addMethod(table, sub, "other", VisProtected)
	if table.EffectiveBinaryAPI(other) {
		t.Fatalf("unrelated declaration must not be binary API")
	}
	if got := table.OverridesOf(root); len(got) != 1 || got[0] != midM {
		t.Fatalf("OverridesOf(root) = %v", got)
	}
}

func TestValidateCatchesDanglingReferences(t *testing.T) {
	table := testTable()
	cls := addClass(table, "lib.C", NoClassID, NoClassID)
	table.NewDecl(&Decl{
		Name:      table.Strings.Intern("m"),
		Owner:     cls,
		Kind:      DeclMethod,
		Overrides: DeclID(99),
	})
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error for dangling override")
	}
}
