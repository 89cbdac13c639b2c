package binapi

import (
	"errors"
	"testing"

	"ember/internal/decl"
	"ember/internal/testkit"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	fx := testkit.NewFixture()
	cls := fx.Class("lib.C", "lib")
	target := fx.Method(cls, "b", decl.VisProtected, 0)

	reg := NewRegistry(fx.Table)
	first, err := reg.GetOrCreate(cls, target, ReasonAnnotation)
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	second, err := reg.GetOrCreate(cls, target, ReasonInline)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if first != second {
		t.Fatalf("expected the identical entry, got %p and %p", first, second)
	}
	if second.Reason != ReasonAnnotation {
		t.Fatalf("reason must not be overwritten on reuse, got %v", second.Reason)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d entries, want 1", reg.Len())
	}
}

func TestAccessorNameIsDeterministic(t *testing.T) {
	build := func() string {
		fx := testkit.NewFixture()
		cls := fx.Class("lib.C", "lib")
		target := fx.Method(cls, "b", decl.VisProtected, 0)
		reg := NewRegistry(fx.Table)
		entry, err := reg.GetOrCreate(cls, target, ReasonInline)
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		name, _ := fx.Table.Strings.Lookup(entry.Name)
		return name
	}
	first, second := build(), build()
	if first != second {
		t.Fatalf("independent runs synthesized %q and %q", first, second)
	}
	if want := "lib.C" + NameSep + "b"; first != want {
		t.Fatalf("accessor name = %q, want %q", first, want)
	}
}

func TestAccessorInsertedAsPublicDecl(t *testing.T) {
	fx := testkit.NewFixture()
	cls := fx.Class("lib.C", "lib")
	target := fx.Method(cls, "b", decl.VisProtected, 0)

	reg := NewRegistry(fx.Table)
	entry, err := reg.GetOrCreate(cls, target, ReasonAnnotation)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	acc := fx.Table.Decl(entry.Accessor)
	if acc == nil {
		t.Fatalf("accessor not inserted into the table")
	}
	if acc.Vis != decl.VisPublic || !acc.Synthetic || acc.Forwards != target {
		t.Fatalf("accessor decl malformed: %+v", acc)
	}
	if err := fx.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestDedupIsPerOwningClass(t *testing.T) {
	fx := testkit.NewFixture()
	owner := fx.Class("lib.Owner", "lib")
	c1 := fx.Class("lib.C1", "lib")
	c2 := fx.Class("lib.C2", "lib")
	target := fx.Method(owner, "b", decl.VisProtected, 0)

	reg := NewRegistry(fx.Table)
	e1, err := reg.GetOrCreate(c1, target, ReasonInline)
	if err != nil {
		t.Fatalf("c1: %v", err)
	}
	e2, err := reg.GetOrCreate(c2, target, ReasonInline)
	if err != nil {
		t.Fatalf("c2: %v", err)
	}
	if e1 == e2 || e1.Accessor == e2.Accessor {
		t.Fatalf("accessors must be scoped per class, got shared entry")
	}
	if reg.Len() != 2 {
		t.Fatalf("registry holds %d entries, want 2", reg.Len())
	}
}

func TestNamingCollisionPoisonsRegistry(t *testing.T) {
	fx := testkit.NewFixture()
	cls := fx.Class("lib.C", "lib")
	// Two distinct declarations with the same simple name (an overload
	// pair) force identical synthesized names.
	first := fx.Method(cls, "b", decl.VisProtected, 0)
	second := fx.Method(cls, "b", decl.VisPrivateScope, 0)
	other := fx.Method(cls, "c", decl.VisProtected, 0)

	reg := NewRegistry(fx.Table)
	if _, err := reg.GetOrCreate(cls, first, ReasonInline); err != nil {
		t.Fatalf("first target: %v", err)
	}
	_, err := reg.GetOrCreate(cls, second, ReasonInline)
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected CollisionError, got %v", err)
	}
	if !reg.Disabled() {
		t.Fatalf("collision must poison the registry")
	}
	if _, err := reg.GetOrCreate(cls, other, ReasonInline); !errors.Is(err, ErrSynthesisDisabled) {
		t.Fatalf("poisoned registry must refuse further synthesis, got %v", err)
	}
	// The first entry survives untouched.
	if entry, ok := reg.Lookup(cls, first); !ok || entry == nil {
		t.Fatalf("collision must not evict existing entries")
	}
}

func TestEntriesKeepSynthesisOrder(t *testing.T) {
	fx := testkit.NewFixture()
	cls := fx.Class("lib.C", "lib")
	a := fx.Method(cls, "a", decl.VisProtected, 0)
	b := fx.Method(cls, "b", decl.VisProtected, 0)

	reg := NewRegistry(fx.Table)
	if _, err := reg.GetOrCreate(cls, b, ReasonInline); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.GetOrCreate(cls, a, ReasonInline); err != nil {
		t.Fatal(err)
	}
	entries := reg.Entries()
	if len(entries) != 2 || entries[0].Key.Target != b || entries[1].Key.Target != a {
		t.Fatalf("entries out of synthesis order: %+v", entries)
	}
}
