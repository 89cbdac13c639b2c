package binapi

import (
	"testing"

	"ember/internal/decl"
	"ember/internal/diag"
	"ember/internal/testkit"
)

type promoteEnv struct {
	fx       *testkit.Fixture
	reg      *Registry
	bag      *diag.Bag
	promoter *Promoter
}

func newPromoteEnv(t *testing.T) *promoteEnv {
	t.Helper()
	fx := testkit.NewFixture()
	reg := NewRegistry(fx.Table)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	advisor := NewAdvisor(fx.Table, reporter, false)
	return &promoteEnv{
		fx:       fx,
		reg:      reg,
		bag:      bag,
		promoter: NewPromoter(fx.Table, reg, advisor, reporter),
	}
}

func codesOf(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, 0, len(items))
	for _, d := range items {
		out = append(out, d.Code)
	}
	return out
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestPromotionWidensAnnotatedDecl(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	stranger := env.fx.Class("app.Main", "app")
	id := env.fx.Method(cls, "internalHook", decl.VisProtected, decl.AnnotBinaryAPI)

	env.promoter.Run()

	if got := env.fx.Table.Decl(id).Vis; got != decl.VisPublic {
		t.Fatalf("visibility after promotion = %v, want public", got)
	}
	from := decl.Context{Class: stranger, SameUnit: false}
	if !decl.Accessible(env.fx.Table, id, from) {
		t.Fatalf("promoted declaration must be accessible from any context")
	}
	if env.bag.Len() != 0 {
		t.Fatalf("clean promotion emitted diagnostics: %v", codesOf(env.bag))
	}
}

func TestAnnotationOnPublicDeclEmitsNoEffectAdvisory(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	env.fx.Method(cls, "open", decl.VisPublic, decl.AnnotBinaryAPI)

	env.promoter.Run()

	if n := countCode(env.bag, diag.PromoAnnotationNoEffect); n != 1 {
		t.Fatalf("no-effect advisories = %d, want 1 (%v)", n, codesOf(env.bag))
	}
	if env.bag.HasErrors() || env.bag.HasWarnings() {
		t.Fatalf("the advisory must stay informational: %v", env.bag.Items())
	}
}

func TestInvalidPlacementSkipsDeclOnly(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	bad := env.fx.Method(cls, "secret", decl.VisPrivateInstance, decl.AnnotBinaryAPI)
	good := env.fx.Method(cls, "hook", decl.VisProtected, decl.AnnotBinaryAPI)

	env.promoter.Run()

	if n := countCode(env.bag, diag.PromoInvalidPlacement); n != 1 {
		t.Fatalf("placement errors = %d, want 1 (%v)", n, codesOf(env.bag))
	}
	if got := env.fx.Table.Decl(bad).Vis; got != decl.VisPrivateInstance {
		t.Fatalf("rejected declaration must keep its visibility, got %v", got)
	}
	if got := env.fx.Table.Decl(good).Vis; got != decl.VisPublic {
		t.Fatalf("pass must continue past the invalid placement, sibling vis = %v", got)
	}
}

func TestOverrideOfBinaryAPIIsPromoted(t *testing.T) {
	env := newPromoteEnv(t)
	base := env.fx.Class("lib.Base", "lib")
	sub := env.fx.ClassWith("lib.Sub", "lib", base, decl.NoClassID, true)
	parent := env.fx.Method(base, "hook", decl.VisProtected, decl.AnnotBinaryAPI)
	child := env.fx.Override(sub, "hook", decl.VisProtected, 0, parent)

	env.promoter.Run()

	if got := env.fx.Table.Decl(child).Vis; got != decl.VisPublic {
		t.Fatalf("override of a binary-API declaration must be promoted, got %v", got)
	}
	if n := countCode(env.bag, diag.PromoOverridePromoted); n != 1 {
		t.Fatalf("override-promotion infos = %d, want 1 (%v)", n, codesOf(env.bag))
	}
}

func TestAccessorAnnotationMaterializesAccessor(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	id := env.fx.Method(cls, "b", decl.VisProtected, decl.AnnotBinaryAPIAccessor)

	env.promoter.Run()

	// Accessor-only annotation does not change the target's visibility.
	if got := env.fx.Table.Decl(id).Vis; got != decl.VisProtected {
		t.Fatalf("accessor annotation must not widen the target, got %v", got)
	}
	entry, ok := env.reg.Lookup(cls, id)
	if !ok {
		t.Fatalf("accessor was not materialized")
	}
	if entry.Reason != ReasonAnnotation {
		t.Fatalf("accessor reason = %v, want annotation", entry.Reason)
	}
}

func TestBothAnnotationsPromoteAndMaterialize(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	id := env.fx.Method(cls, "b", decl.VisProtected, decl.AnnotBinaryAPI|decl.AnnotBinaryAPIAccessor)

	env.promoter.Run()

	if got := env.fx.Table.Decl(id).Vis; got != decl.VisPublic {
		t.Fatalf("target not promoted, vis = %v", got)
	}
	if _, ok := env.reg.Lookup(cls, id); !ok {
		t.Fatalf("accessor must still be materialized for promoted targets")
	}
}

func TestForeignClassesAreLeftUntouched(t *testing.T) {
	env := newPromoteEnv(t)
	foreign := env.fx.ClassWith("dep.D", "dep", decl.NoClassID, decl.NoClassID, false)
	id := env.fx.Method(foreign, "hook", decl.VisProtected, decl.AnnotBinaryAPI)

	env.promoter.Run()

	if got := env.fx.Table.Decl(id).Vis; got != decl.VisProtected {
		t.Fatalf("foreign declaration mutated to %v", got)
	}
	if env.reg.Len() != 0 || env.bag.Len() != 0 {
		t.Fatalf("foreign class produced accessors or diagnostics")
	}
}

func TestSecondRunDoesNotDuplicateAccessors(t *testing.T) {
	env := newPromoteEnv(t)
	cls := env.fx.Class("lib.C", "lib")
	env.fx.Method(cls, "b", decl.VisProtected, decl.AnnotBinaryAPIAccessor)

	env.promoter.Run()
	env.promoter.Run()

	if env.reg.Len() != 1 {
		t.Fatalf("registry holds %d entries after two runs, want 1", env.reg.Len())
	}
	if err := env.fx.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}
