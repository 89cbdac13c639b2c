package binapi

import (
	"errors"
	"fmt"

	"ember/internal/decl"
	"ember/internal/source"
)

// NameSep is the reserved separator used to build accessor identities.
// It cannot appear in user identifiers, so the concatenation
// <owner full name><NameSep><target simple name> is unambiguous, and
// independent compilations of the same source always synthesize the same
// accessor name. That determinism is the binary-stability contract.
const NameSep = "$bin$"

// AccessorName builds the deterministic accessor identity for a target.
func AccessorName(ownerPath, simpleName string) string {
	return ownerPath + NameSep + simpleName
}

// Reason records why an accessor was synthesized.
type Reason uint8

const (
	ReasonInvalid Reason = iota
	// ReasonAnnotation marks accessors requested by @binaryAPIAccessor.
	ReasonAnnotation
	// ReasonInline marks ad-hoc accessors forced by an inline body.
	ReasonInline
)

func (r Reason) String() string {
	switch r {
	case ReasonAnnotation:
		return "annotation"
	case ReasonInline:
		return "inline"
	default:
		return "invalid"
	}
}

// Key identifies an accessor request: the class the accessor lives in and
// the declaration it forwards to.
type Key struct {
	Owner  decl.ClassID
	Target decl.DeclID
}

// Entry is one synthesized accessor. The registry holds at most one entry
// per Key.
type Entry struct {
	Key      Key
	Accessor decl.DeclID
	Name     source.StringID
	Reason   Reason
}

// ErrSynthesisDisabled is returned once a naming collision has poisoned
// the registry: no further accessors are synthesized for the unit.
var ErrSynthesisDisabled = errors.New("accessor synthesis disabled after naming collision")

// CollisionError reports that a distinct target would synthesize an
// already-claimed accessor name. Silently picking one target would corrupt
// the binary-compatibility guarantee, so this is fatal for the unit.
type CollisionError struct {
	Name     string
	Claimed  decl.DeclID
	Rejected decl.DeclID
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("accessor name %q already synthesized for another target", e.Name)
}

type nameKey struct {
	Owner decl.ClassID
	Name  source.StringID
}

// Registry deduplicates accessor synthesis per (owning class, target).
// It holds non-owning IDs into the declaration table and inserts the
// accessors it creates back into that table as ordinary public
// declarations. One registry serves exactly one compilation unit; units
// processed in parallel each carry their own.
type Registry struct {
	table    *decl.Table
	entries  map[Key]*Entry
	claimed  map[nameKey]decl.DeclID
	order    []Key
	disabled bool
}

// NewRegistry creates an empty registry bound to a declaration table.
func NewRegistry(table *decl.Table) *Registry {
	return &Registry{
		table:   table,
		entries: make(map[Key]*Entry),
		claimed: make(map[nameKey]decl.DeclID),
	}
}

// Lookup returns the existing entry for (owner, target), if any.
func (r *Registry) Lookup(owner decl.ClassID, target decl.DeclID) (*Entry, bool) {
	e, ok := r.entries[Key{Owner: owner, Target: target}]
	return e, ok
}

// GetOrCreate returns the accessor entry for (owner, target), synthesizing
// it on first request. Repeated calls with the same key return the
// identical entry regardless of reason: the registry is a deduplicating
// cache, not a multimap.
func (r *Registry) GetOrCreate(owner decl.ClassID, target decl.DeclID, reason Reason) (*Entry, error) {
	key := Key{Owner: owner, Target: target}
	if e, ok := r.entries[key]; ok {
		return e, nil
	}
	if r.disabled {
		return nil, ErrSynthesisDisabled
	}
	targetDecl := r.table.Decl(target)
	if targetDecl == nil {
		return nil, fmt.Errorf("accessor target %d not in declaration table", target)
	}
	name := AccessorName(r.table.ClassPath(owner), r.table.DeclName(target))
	nameID := r.table.Strings.Intern(name)
	nk := nameKey{Owner: owner, Name: nameID}
	if prev, ok := r.claimed[nk]; ok && prev != target {
		r.disabled = true
		return nil, &CollisionError{Name: name, Claimed: prev, Rejected: target}
	}

	accessor := r.table.NewDecl(&decl.Decl{
		Name:      nameID,
		Owner:     owner,
		Kind:      decl.DeclMethod,
		Vis:       decl.VisPublic,
		Span:      targetDecl.Span,
		Synthetic: true,
		Forwards:  target,
	})
	e := &Entry{
		Key:      key,
		Accessor: accessor,
		Name:     nameID,
		Reason:   reason,
	}
	r.entries[key] = e
	r.claimed[nk] = target
	r.order = append(r.order, key)
	return e, nil
}

// Entries returns all entries in synthesis order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Len reports the number of synthesized accessors.
func (r *Registry) Len() int { return len(r.entries) }

// Disabled reports whether a naming collision stopped further synthesis.
func (r *Registry) Disabled() bool { return r.disabled }
