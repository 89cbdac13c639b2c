package pipeline

import "time"

// Stage describes a high-level phase of processing one unit.
type Stage string

const (
	// StageLoad reads and materializes the unit payload.
	StageLoad Stage = "load"
	// StagePromote runs the binary-API promoter.
	StagePromote Stage = "promote"
	// StageRewrite runs the inline-reference rewriter.
	StageRewrite Stage = "rewrite"
	// StageEmit serializes the processed unit.
	StageEmit Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently processing.
	StatusWorking Status = "working"
	// StatusDone indicates the unit is done.
	StatusDone Status = "done"
	// StatusError indicates the unit failed.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the overall pipeline when Unit
// is empty).
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
