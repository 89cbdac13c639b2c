package meta

import (
	"fmt"

	"ember/internal/decl"
	"ember/internal/inline"
	"ember/internal/source"
)

// Unit is a materialized payload: the in-memory declaration table and
// inline bodies the pass operates on.
type Unit struct {
	Name   string
	Table  *decl.Table
	Bodies []*inline.Body
	Files  *source.FileSet
}

// Materialize rebuilds the in-memory unit from a payload. Payload indices
// are translated to arena IDs one to one (payload entry i becomes arena ID
// i+1), so references stay valid without a remap table. Dangling indices
// are reported as errors: a corrupt payload must not reach the pass.
func Materialize(p *UnitPayload, fs *source.FileSet) (*Unit, error) {
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: payload schema %d, expected %d", ErrSchemaMismatch, p.Schema, SchemaVersion)
	}
	if fs == nil {
		fs = source.NewFileSet()
	}

	fileMap := make([]source.FileID, len(p.Files)+1)
	for i, path := range p.Files {
		fileMap[i+1] = fs.Add(path)
	}
	span := func(sp SpanPayload) (source.Span, error) {
		if sp.File == 0 {
			return source.Span{Start: sp.Start, End: sp.End}, nil
		}
		if int(sp.File) >= len(fileMap) {
			return source.Span{}, fmt.Errorf("%w: span references file %d of %d", ErrPayloadCorrupt, sp.File, len(p.Files))
		}
		return source.Span{File: fileMap[sp.File], Start: sp.Start, End: sp.End}, nil
	}

	table := decl.NewTable(decl.Hints{
		Classes: uint(len(p.Classes)),
		Decls:   uint(len(p.Decls)),
	}, nil)

	for i, cp := range p.Classes {
		if int(cp.Parent) > len(p.Classes) || int(cp.Outer) > len(p.Classes) {
			return nil, fmt.Errorf("%w: class %q references class out of range", ErrPayloadCorrupt, cp.Path)
		}
		sp, err := span(cp.Span)
		if err != nil {
			return nil, err
		}
		id := table.NewClass(&decl.Class{
			Path:    table.Strings.Intern(cp.Path),
			Package: table.Strings.Intern(cp.Package),
			Parent:  decl.ClassID(cp.Parent),
			Outer:   decl.ClassID(cp.Outer),
			Span:    sp,
			Local:   cp.Local,
		})
		if id != decl.ClassID(i+1) {
			return nil, fmt.Errorf("%w: class %q materialized with unexpected ID", ErrPayloadCorrupt, cp.Path)
		}
	}

	for i, dp := range p.Decls {
		if dp.Owner == 0 || int(dp.Owner) > len(p.Classes) {
			return nil, fmt.Errorf("%w: decl %q has owner out of range", ErrPayloadCorrupt, dp.Name)
		}
		if int(dp.Overrides) > len(p.Decls) || int(dp.Forwards) > len(p.Decls) {
			return nil, fmt.Errorf("%w: decl %q references decl out of range", ErrPayloadCorrupt, dp.Name)
		}
		sp, err := span(dp.Span)
		if err != nil {
			return nil, err
		}
		id := table.NewDecl(&decl.Decl{
			Name:      table.Strings.Intern(dp.Name),
			Owner:     decl.ClassID(dp.Owner),
			Kind:      decl.DeclKind(dp.Kind),
			Vis:       decl.Visibility(dp.Vis),
			Annots:    decl.Annot(dp.Annots),
			Overrides: decl.DeclID(dp.Overrides),
			Span:      sp,
			Synthetic: dp.Synthetic,
			Forwards:  decl.DeclID(dp.Forwards),
		})
		if id != decl.DeclID(i+1) {
			return nil, fmt.Errorf("%w: decl %q materialized with unexpected ID", ErrPayloadCorrupt, dp.Name)
		}
	}

	bodies := make([]*inline.Body, 0, len(p.Bodies))
	for _, bp := range p.Bodies {
		if bp.Owner == 0 || int(bp.Owner) > len(p.Classes) {
			return nil, fmt.Errorf("%w: body owner class out of range", ErrPayloadCorrupt)
		}
		if int(bp.Decl) > len(p.Decls) {
			return nil, fmt.Errorf("%w: body decl out of range", ErrPayloadCorrupt)
		}
		body := inline.NewBody(decl.ClassID(bp.Owner), decl.DeclID(bp.Decl), uint32(len(bp.Exprs)))
		for _, ep := range bp.Exprs {
			if int(ep.Target) > len(p.Decls) || int(ep.Via) > len(p.Decls) {
				return nil, fmt.Errorf("%w: body expression references decl out of range", ErrPayloadCorrupt)
			}
			sp, err := span(ep.Span)
			if err != nil {
				return nil, err
			}
			args := make([]inline.ExprID, 0, len(ep.Args))
			for _, a := range ep.Args {
				if a == 0 || int(a) > len(bp.Exprs) {
					return nil, fmt.Errorf("%w: body expression argument out of range", ErrPayloadCorrupt)
				}
				args = append(args, inline.ExprID(a))
			}
			body.Add(inline.Expr{
				Kind:   inline.ExprKind(ep.Kind),
				Target: decl.DeclID(ep.Target),
				Via:    decl.DeclID(ep.Via),
				Args:   args,
				Op:     ep.Op,
				Span:   sp,
			})
		}
		if int(bp.Root) > len(bp.Exprs) {
			return nil, fmt.Errorf("%w: body root out of range", ErrPayloadCorrupt)
		}
		body.Root = inline.ExprID(bp.Root)
		bodies = append(bodies, body)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadCorrupt, err)
	}
	return &Unit{Name: p.Unit, Table: table, Bodies: bodies, Files: fs}, nil
}
