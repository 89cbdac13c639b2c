// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: a Severity, a compact numeric Code with
// a stable textual ID, a message, the primary source.Span and optional
// notes. Phases emit through the Reporter interface so that producers stay
// decoupled from storage and formatting; BagReporter aggregates into a Bag,
// which supports sorting, deduplication and merging across units.
//
// Rendering lives in internal/diagfmt; package diag performs no IO.
package diag
