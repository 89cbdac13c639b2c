package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ember/internal/decl"
	"ember/internal/inline"
	"ember/internal/source"
)

// sumPayload builds the canonical test unit: class lib.C with a public
// 'a', a protected 'b' and an inlinable 'sum' whose body is `a + b`.
func sumPayload() *UnitPayload {
	sp := func(start uint32) SpanPayload {
		return SpanPayload{File: 1, Start: start, End: start + 8}
	}
	return &UnitPayload{
		Schema: SchemaVersion,
		Unit:   "lib",
		Files:  []string{"lib/c.src"},
		Classes: []ClassPayload{
			{Path: "lib.C", Package: "lib", Local: true, Span: sp(0)},
		},
		Decls: []DeclPayload{
			{Name: "a", Owner: 1, Kind: uint8(decl.DeclMethod), Vis: uint8(decl.VisPublic), Span: sp(16)},
			{Name: "b", Owner: 1, Kind: uint8(decl.DeclMethod), Vis: uint8(decl.VisProtected), Span: sp(32)},
			{Name: "sum", Owner: 1, Kind: uint8(decl.DeclMethod), Vis: uint8(decl.VisPublic), Span: sp(48)},
		},
		Bodies: []BodyPayload{
			{
				Owner: 1,
				Decl:  3,
				Root:  3,
				Exprs: []ExprPayload{
					{Kind: 2, Target: 1, Span: sp(52)},
					{Kind: 2, Target: 2, Span: sp(56)},
					{Kind: 4, Op: "+", Args: []uint32{1, 2}, Span: sp(52)},
				},
			},
		},
	}
}

func TestMaterializeBuildsWorkingUnit(t *testing.T) {
	unit, err := Materialize(sumPayload(), nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if unit.Name != "lib" {
		t.Fatalf("unit name = %q", unit.Name)
	}
	cls, ok := unit.Table.ClassByPath(unit.Table.Strings.Intern("lib.C"))
	if !ok {
		t.Fatalf("class lib.C missing after materialization")
	}
	if got := len(unit.Table.Class(cls).Decls); got != 3 {
		t.Fatalf("class holds %d decls, want 3", got)
	}
	if len(unit.Bodies) != 1 || unit.Bodies[0].Len() != 3 {
		t.Fatalf("bodies malformed: %+v", unit.Bodies)
	}
	var targets []decl.DeclID
	unit.Bodies[0].WalkRefs(func(_ inline.ExprID, e *inline.Expr) {
		targets = append(targets, e.Target)
	})
	if len(targets) != 2 || targets[0] != decl.DeclID(1) || targets[1] != decl.DeclID(2) {
		t.Fatalf("reference targets = %v, want [1 2]", targets)
	}
}

func TestPayloadSurvivesRebuild(t *testing.T) {
	original := sumPayload()
	unit, err := Materialize(original, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	rebuilt := BuildPayload(unit, nil)

	if rebuilt.Schema != SchemaVersion || rebuilt.Unit != original.Unit {
		t.Fatalf("header changed: %+v", rebuilt)
	}
	if len(rebuilt.Classes) != 1 || rebuilt.Classes[0].Path != "lib.C" {
		t.Fatalf("classes changed: %+v", rebuilt.Classes)
	}
	if len(rebuilt.Decls) != 3 {
		t.Fatalf("decls = %d, want 3", len(rebuilt.Decls))
	}
	for i, want := range []string{"a", "b", "sum"} {
		if rebuilt.Decls[i].Name != want {
			t.Fatalf("decl %d name = %q, want %q", i, rebuilt.Decls[i].Name, want)
		}
	}
	if len(rebuilt.Bodies) != 1 {
		t.Fatalf("bodies = %d, want 1", len(rebuilt.Bodies))
	}
	body := rebuilt.Bodies[0]
	if body.Root != 3 || len(body.Exprs) != 3 {
		t.Fatalf("body shape changed: %+v", body)
	}
	if body.Exprs[2].Op != "+" || len(body.Exprs[2].Args) != 2 {
		t.Fatalf("binary node changed: %+v", body.Exprs[2])
	}
	if len(rebuilt.Files) != 1 || rebuilt.Files[0] != "lib/c.src" {
		t.Fatalf("files changed: %v", rebuilt.Files)
	}
}

func TestMaterializeRejectsSchemaMismatch(t *testing.T) {
	p := sumPayload()
	p.Schema = SchemaVersion + 1
	if _, err := Materialize(p, nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestMaterializeRejectsCorruptIndices(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *UnitPayload)
	}{
		{"decl owner out of range", func(p *UnitPayload) { p.Decls[0].Owner = 9 }},
		{"decl owner missing", func(p *UnitPayload) { p.Decls[0].Owner = 0 }},
		{"override out of range", func(p *UnitPayload) { p.Decls[1].Overrides = 9 }},
		{"span file out of range", func(p *UnitPayload) { p.Classes[0].Span.File = 5 }},
		{"body owner out of range", func(p *UnitPayload) { p.Bodies[0].Owner = 9 }},
		{"expr target out of range", func(p *UnitPayload) { p.Bodies[0].Exprs[0].Target = 9 }},
		{"expr arg out of range", func(p *UnitPayload) { p.Bodies[0].Exprs[2].Args[0] = 9 }},
		{"body root out of range", func(p *UnitPayload) { p.Bodies[0].Root = 9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := sumPayload()
			tc.mutate(p)
			if _, err := Materialize(p, nil); !errors.Is(err, ErrPayloadCorrupt) {
				t.Fatalf("expected corrupt payload, got %v", err)
			}
		})
	}
}

func TestSaveAndLoadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lib.mp")
	if err := SavePayload(path, sumPayload()); err != nil {
		t.Fatalf("SavePayload: %v", err)
	}
	loaded, err := LoadPayload(path)
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	if loaded.Unit != "lib" || len(loaded.Decls) != 3 || len(loaded.Bodies) != 1 {
		t.Fatalf("payload did not survive the disk trip: %+v", loaded)
	}
}

func TestLoadPayloadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mp")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPayload(path); !errors.Is(err, ErrPayloadCorrupt) {
		t.Fatalf("expected corrupt payload, got %v", err)
	}
}

func TestSyntheticDeclsListsAccessorsOnly(t *testing.T) {
	unit, err := Materialize(sumPayload(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := SyntheticDecls(unit.Table); len(got) != 0 {
		t.Fatalf("fresh unit reports synthetics: %v", got)
	}
	id := unit.Table.NewDecl(&decl.Decl{
		Name:      unit.Table.Strings.Intern("lib.C$bin$b"),
		Owner:     decl.ClassID(1),
		Kind:      decl.DeclMethod,
		Vis:       decl.VisPublic,
		Synthetic: true,
		Forwards:  decl.DeclID(2),
		Span:      source.Span{File: source.FileID(1), Start: 1, End: 2},
	})
	got := SyntheticDecls(unit.Table)
	if len(got) != 1 || got[0] != id {
		t.Fatalf("synthetics = %v, want [%d]", got, id)
	}
}
