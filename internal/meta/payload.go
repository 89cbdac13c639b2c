package meta

// Unit payloads are the persisted exchange format between the front end,
// this pass and the code emitter: a fully resolved declaration table plus
// the inlinable bodies with resolved reference edges. The same shape
// carries the pass output, extended with updated visibilities, synthesized
// accessors and rewritten bodies.

// SchemaVersion is incremented whenever the payload format changes.
const SchemaVersion uint16 = 1

// SpanPayload is a serialized source span. File indexes the payload's
// Files list, 1-based; 0 means no file.
type SpanPayload struct {
	File  uint32
	Start uint32
	End   uint32
}

// ClassPayload is a serialized class. Parent and Outer are 1-based indices
// into Classes; 0 means none.
type ClassPayload struct {
	Path    string
	Package string
	Parent  uint32
	Outer   uint32
	Local   bool
	Span    SpanPayload
}

// DeclPayload is a serialized declaration. Owner indexes Classes,
// Overrides and Forwards index Decls; all 1-based, 0 means none.
type DeclPayload struct {
	Name      string
	Owner     uint32
	Kind      uint8
	Vis       uint8
	Annots    uint8
	Overrides uint32
	Span      SpanPayload
	Synthetic bool
	Forwards  uint32
}

// ExprPayload is a serialized inline-body node. Target and Via index
// Decls; Args index the body's own expression list, 1-based.
type ExprPayload struct {
	Kind   uint8
	Target uint32
	Via    uint32
	Args   []uint32
	Op     string
	Span   SpanPayload
}

// BodyPayload is one serialized inlinable body.
type BodyPayload struct {
	Owner uint32
	Decl  uint32
	Root  uint32
	Exprs []ExprPayload
}

// AccessorPayload records one synthesized accessor in the pass output.
type AccessorPayload struct {
	Owner    uint32
	Target   uint32
	Accessor uint32
	Name     string
	Reason   uint8
}

// UnitPayload is a complete unit: declaration table, inline bodies and,
// after the pass has run, the accessor listing.
type UnitPayload struct {
	Schema  uint16
	Unit    string
	Files   []string
	Classes []ClassPayload
	Decls   []DeclPayload
	Bodies  []BodyPayload

	// Output only: present after the pass has processed the unit.
	Accessors []AccessorPayload
}
