package meta

import (
	"ember/internal/binapi"
	"ember/internal/decl"
	"ember/internal/source"
)

// BuildPayload serializes a processed unit back into a payload: the table
// with updated visibilities and synthetic accessor declarations, the
// rewritten bodies and the accessor listing in synthesis order. The
// resulting payload is deterministic for a given unit.
func BuildPayload(u *Unit, entries []*binapi.Entry) *UnitPayload {
	p := &UnitPayload{
		Schema: SchemaVersion,
		Unit:   u.Name,
	}

	fileIndex := make(map[source.FileID]uint32)
	fileOf := func(id source.FileID) uint32 {
		if id == source.NoFileID {
			return 0
		}
		if idx, ok := fileIndex[id]; ok {
			return idx
		}
		p.Files = append(p.Files, u.Files.Path(id))
		idx := uint32(len(p.Files))
		fileIndex[id] = idx
		return idx
	}
	span := func(sp source.Span) SpanPayload {
		return SpanPayload{File: fileOf(sp.File), Start: sp.Start, End: sp.End}
	}
	lookup := func(id source.StringID) string {
		s, _ := u.Table.Strings.Lookup(id)
		return s
	}

	for _, cls := range u.Table.Classes.Data() {
		p.Classes = append(p.Classes, ClassPayload{
			Path:    lookup(cls.Path),
			Package: lookup(cls.Package),
			Parent:  uint32(cls.Parent),
			Outer:   uint32(cls.Outer),
			Local:   cls.Local,
			Span:    span(cls.Span),
		})
	}

	for _, d := range u.Table.Decls.Data() {
		p.Decls = append(p.Decls, DeclPayload{
			Name:      lookup(d.Name),
			Owner:     uint32(d.Owner),
			Kind:      uint8(d.Kind),
			Vis:       uint8(d.Vis),
			Annots:    uint8(d.Annots),
			Overrides: uint32(d.Overrides),
			Span:      span(d.Span),
			Synthetic: d.Synthetic,
			Forwards:  uint32(d.Forwards),
		})
	}

	for _, body := range u.Bodies {
		bp := BodyPayload{
			Owner: uint32(body.Owner),
			Decl:  uint32(body.Decl),
			Root:  uint32(body.Root),
		}
		for _, e := range body.Exprs() {
			args := make([]uint32, 0, len(e.Args))
			for _, a := range e.Args {
				args = append(args, uint32(a))
			}
			bp.Exprs = append(bp.Exprs, ExprPayload{
				Kind:   uint8(e.Kind),
				Target: uint32(e.Target),
				Via:    uint32(e.Via),
				Args:   args,
				Op:     e.Op,
				Span:   span(e.Span),
			})
		}
		p.Bodies = append(p.Bodies, bp)
	}

	for _, entry := range entries {
		p.Accessors = append(p.Accessors, AccessorPayload{
			Owner:    uint32(entry.Key.Owner),
			Target:   uint32(entry.Key.Target),
			Accessor: uint32(entry.Accessor),
			Name:     lookup(entry.Name),
			Reason:   uint8(entry.Reason),
		})
	}
	return p
}

// SyntheticDecls lists the accessor declarations of a processed unit in
// arena order, for emitters that consume them as ordinary definitions.
func SyntheticDecls(t *decl.Table) []decl.DeclID {
	var out []decl.DeclID
	for i, d := range t.Decls.Data() {
		if d.Synthetic {
			out = append(out, decl.DeclID(i+1))
		}
	}
	return out
}
