package decl

import (
	"errors"
	"fmt"
)

// Validate walks the internal arenas checking structural invariants.
// Returns nil if everything is consistent; otherwise aggregates all
// detected issues.
func (t *Table) Validate() error {
	var errs []error

	// Check classes.
	for idx := 1; idx <= t.Classes.Len(); idx++ {
		id := ClassID(safeClassIndex(idx))
		cls := t.Classes.Get(id)
		if cls.Path == 0 {
			errs = append(errs, fmt.Errorf("class %d has no path", id))
		}
		if cls.Parent == id {
			errs = append(errs, fmt.Errorf("class %d is its own parent", id))
		}
		if cls.Parent.IsValid() && t.Classes.Get(cls.Parent) == nil {
			errs = append(errs, fmt.Errorf("class %d has dangling parent %d", id, cls.Parent))
		}
		if cls.Outer.IsValid() && t.Classes.Get(cls.Outer) == nil {
			errs = append(errs, fmt.Errorf("class %d has dangling outer %d", id, cls.Outer))
		}
		for _, dID := range cls.Decls {
			d := t.Decls.Get(dID)
			if d == nil {
				errs = append(errs, fmt.Errorf("class %d lists dangling decl %d", id, dID))
				continue
			}
			if d.Owner != id {
				errs = append(errs, fmt.Errorf("class %d lists decl %d owned by %d", id, dID, d.Owner))
			}
		}
	}

	// Check declarations.
	for idx, d := range t.Decls.Data() {
		id := DeclID(idx + 1)
		if d.Kind == DeclInvalid {
			errs = append(errs, fmt.Errorf("decl %d has invalid kind", id))
		}
		if d.Name == 0 {
			errs = append(errs, fmt.Errorf("decl %d has no name", id))
		}
		if t.Classes.Get(d.Owner) == nil {
			errs = append(errs, fmt.Errorf("decl %d has dangling owner %d", id, d.Owner))
		}
		if d.Overrides == id {
			errs = append(errs, fmt.Errorf("decl %d overrides itself", id))
		}
		if d.Overrides.IsValid() && t.Decls.Get(d.Overrides) == nil {
			errs = append(errs, fmt.Errorf("decl %d overrides dangling decl %d", id, d.Overrides))
		}
		if d.Synthetic {
			if d.Vis != VisPublic {
				errs = append(errs, fmt.Errorf("synthetic decl %d is not public", id))
			}
			if !d.Forwards.IsValid() || t.Decls.Get(d.Forwards) == nil {
				errs = append(errs, fmt.Errorf("synthetic decl %d has no forwarding target", id))
			}
		}
	}

	// Check the override chain terminates (no cycles).
	for idx := range t.Decls.Data() {
		id := DeclID(idx + 1)
		slow, fast := id, id
		for {
			fast = t.overrideStep(t.overrideStep(fast))
			slow = t.overrideStep(slow)
			if !fast.IsValid() {
				break
			}
			if fast == slow {
				errs = append(errs, fmt.Errorf("decl %d participates in an override cycle", id))
				break
			}
		}
	}

	return errors.Join(errs...)
}

func (t *Table) overrideStep(id DeclID) DeclID {
	if !id.IsValid() {
		return NoDeclID
	}
	d := t.Decls.Get(id)
	if d == nil {
		return NoDeclID
	}
	return d.Overrides
}
