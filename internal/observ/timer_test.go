package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerTracksPhases(t *testing.T) {
	timer := NewTimer()
	load := timer.Begin("load")
	time.Sleep(time.Millisecond)
	timer.End(load, "3 classes")
	promote := timer.Begin("promote")
	timer.End(promote, "")

	rep := timer.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Name != "load" || rep.Phases[0].Note != "3 classes" {
		t.Fatalf("load phase wrong: %+v", rep.Phases[0])
	}
	if rep.Phases[0].DurationMS <= 0 {
		t.Fatalf("load duration not recorded: %+v", rep.Phases[0])
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Fatalf("total %.2f smaller than load %.2f", rep.TotalMS, rep.Phases[0].DurationMS)
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(0, "nothing begun")
	timer.End(-1, "")
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("phantom phases: %+v", got)
	}
}

func TestSummaryListsEveryPhase(t *testing.T) {
	timer := NewTimer()
	timer.End(timer.Begin("rewrite"), "5 sites")
	out := timer.Summary()
	if !strings.Contains(out, "rewrite") || !strings.Contains(out, "// 5 sites") || !strings.Contains(out, "total") {
		t.Fatalf("summary incomplete:\n%s", out)
	}
}
