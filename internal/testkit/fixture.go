package testkit

import (
	"fmt"

	"ember/internal/decl"
	"ember/internal/source"
)

// Fixture assembles declaration tables for tests with readable names
// instead of raw interner plumbing.
type Fixture struct {
	Table *decl.Table
	file  source.FileID
	next  uint32
}

// NewFixture creates an empty fixture with a fresh table.
func NewFixture() *Fixture {
	return &Fixture{
		Table: decl.NewTable(decl.Hints{}, nil),
		file:  source.FileID(1),
	}
}

func (f *Fixture) span() source.Span {
	f.next += 16
	return source.Span{File: f.file, Start: f.next, End: f.next + 8}
}

// Class adds a local class with the given path and package.
func (f *Fixture) Class(path, pkg string) decl.ClassID {
	return f.ClassWith(path, pkg, decl.NoClassID, decl.NoClassID, true)
}

// ClassWith adds a class with explicit parent, outer and locality.
func (f *Fixture) ClassWith(path, pkg string, parent, outer decl.ClassID, local bool) decl.ClassID {
	return f.Table.NewClass(&decl.Class{
		Path:    f.Table.Strings.Intern(path),
		Package: f.Table.Strings.Intern(pkg),
		Parent:  parent,
		Outer:   outer,
		Span:    f.span(),
		Local:   local,
	})
}

// Method adds a method declaration with the given visibility and annotations.
func (f *Fixture) Method(owner decl.ClassID, name string, vis decl.Visibility, annots decl.Annot) decl.DeclID {
	return f.DeclWith(owner, name, decl.DeclMethod, vis, annots, decl.NoDeclID)
}

// Override adds a method that overrides another declaration.
func (f *Fixture) Override(owner decl.ClassID, name string, vis decl.Visibility, annots decl.Annot, overrides decl.DeclID) decl.DeclID {
	return f.DeclWith(owner, name, decl.DeclMethod, vis, annots, overrides)
}

// DeclWith adds a declaration with every knob exposed.
func (f *Fixture) DeclWith(owner decl.ClassID, name string, kind decl.DeclKind, vis decl.Visibility, annots decl.Annot, overrides decl.DeclID) decl.DeclID {
	return f.Table.NewDecl(&decl.Decl{
		Name:      f.Table.Strings.Intern(name),
		Owner:     owner,
		Kind:      kind,
		Vis:       vis,
		Annots:    annots,
		Overrides: overrides,
		Span:      f.span(),
	})
}

// CheckInvariants validates the table and wraps failures with context.
func (f *Fixture) CheckInvariants() error {
	if err := f.Table.Validate(); err != nil {
		return fmt.Errorf("table invariants violated: %w", err)
	}
	return nil
}
