// Package pipeline orchestrates the binary-surface pass over unit
// payloads: load and materialize, promote, rewrite, emit. Each unit is
// fully independent (own table, own registry), which is what makes the
// parallel path in ProcessUnits safe. Progress is streamed through
// ProgressSink for the CLI's interactive mode.
package pipeline
