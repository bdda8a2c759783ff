package vm_test

import (
	"reflect"
	"testing"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/vm"
)

func TestNewEngine(t *testing.T) {
	c := pwmseq.Composition{RhythmUnit: 5, Sequences: []pwmseq.Sequence{{1, 60, 4}, {0, 1, 0}}}
	e, err := vm.NewEngine(c, vm.EngineOptions{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if len(e.Channels) != 2 || len(e.Tracks) != 2 {
		t.Fatalf("expected 2 channels and 2 tracks, got %v and %v", len(e.Channels), len(e.Tracks))
	}
	if e.RhythmUnit != 5 || e.Volume != vm.DefaultVolume {
		t.Fatalf("expected rhythm unit 5 and default volume, got %v and %v", e.RhythmUnit, e.Volume)
	}
	for i, ch := range e.Channels {
		if ch.Instrument != vm.Silence || ch.Pitches.Len() != 0 || ch.PolyCycleThreshold != vm.DefaultPolyCycleThreshold {
			t.Fatalf("channel %v not initialized to defaults: %+v", i, ch)
		}
	}
	e, err = vm.NewEngine(c, vm.EngineOptions{Volume: 2, PolyCycleThreshold: 7})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if e.Volume != 2 || e.Channels[1].PolyCycleThreshold != 7 {
		t.Fatalf("options were not applied")
	}
}

func TestNewEngineRejectsInvalidCompositions(t *testing.T) {
	for _, c := range []pwmseq.Composition{
		{RhythmUnit: 1},
		{RhythmUnit: 1, Sequences: []pwmseq.Sequence{{}}},
		{RhythmUnit: 0, Sequences: []pwmseq.Sequence{{0, 1, 0}}},
		{RhythmUnit: 1, Sequences: []pwmseq.Sequence{{0}, {0}, {0}, {0}, {0}}},
	} {
		if _, err := vm.NewEngine(c, vm.EngineOptions{}); err == nil {
			t.Errorf("NewEngine should have failed for %+v", c)
		}
	}
}

func TestRewind(t *testing.T) {
	e := newEngine(t, 1, pwmseq.Sequence{5, 1, 8, 2, 0, 9, 0}, pwmseq.Sequence{0, 3, 0})
	e.Sequence()
	e.Sequence()
	e.Rewind()
	for i, tr := range e.Tracks {
		if tr.Position != 0 || tr.Jump != 0 || tr.Sleep != 0 {
			t.Fatalf("track %v not rewound: %+v", i, tr)
		}
	}
	if e.Loops != 1 {
		t.Fatalf("expected 1 loop, got %v", e.Loops)
	}
}

// After a tick where any track finished, every track should look like it had
// just played its first tick.
func TestFinishedTrackRewindsAll(t *testing.T) {
	seqs := []pwmseq.Sequence{{1, 60, 2, 0}, {0, 10, 0, 10, 0}, {5, 3, 8, 2, 0, 50, 0}}
	var diags diagnosticsCollector
	e, err := vm.NewEngine(pwmseq.Composition{RhythmUnit: 1, Sequences: seqs}, vm.EngineOptions{Diagnostics: diags.diagnostics()})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	fresh := newEngine(t, 1, seqs...)
	fresh.Sequence()
	for i := 0; i < 3; i++ {
		e.Sequence()
	}
	if e.Loops != 0 {
		t.Fatalf("no track should have finished yet")
	}
	if !e.Tracks[0].Finished() {
		t.Fatalf("first track should be finished")
	}
	e.Sequence()
	if e.Loops != 1 {
		t.Fatalf("expected exactly one rewind, got %v", e.Loops)
	}
	if !reflect.DeepEqual(e.Tracks, fresh.Tracks) {
		t.Fatalf("after rewind tracks should restart together:\ngot      %+v\nexpected %+v", e.Tracks, fresh.Tracks)
	}
	if len(diags) != 1 || diags[0].Kind != vm.Rewind || diags[0].Track != 0 {
		t.Fatalf("expected one rewind diagnostic from track 0, got %v", diags)
	}
}

func TestShortTrackWaitsForLongTrack(t *testing.T) {
	short := pwmseq.Sequence{1, 60, 20, 0}
	long := pwmseq.Sequence{0, 2, 0, 2, 0, 2, 0, 2, 0}
	e := newEngine(t, 1, short, long)
	for i := 0; i < 12; i++ {
		e.Sequence()
		if i > 0 && !e.Tracks[0].AtEnd() {
			t.Fatalf("tick %v: short track should idle at its end", i)
		}
	}
	if e.Loops != 0 {
		t.Fatalf("short track is still sleeping, so nothing should have looped yet")
	}
	if e.Tracks[0].Sleep == 0 || !e.Tracks[1].Finished() {
		t.Fatalf("expected the long track finished and the short track sleeping; got %+v", e.Tracks)
	}
	e.Sequence()
	if e.Loops != 1 {
		t.Fatalf("long track finishing should rewind both")
	}
	if e.Tracks[0].Position != 3 || e.Tracks[0].Sleep != 20 || e.Tracks[1].Position != 2 || e.Tracks[1].Sleep != 2 {
		t.Fatalf("both tracks should have restarted on the same tick, got %+v", e.Tracks)
	}
}

func TestTempoChangeSeenByLaterTracks(t *testing.T) {
	e := newEngine(t, 1, pwmseq.Sequence{7, 2, 0, 9, 0}, pwmseq.Sequence{0, 3, 0})
	e.Sequence()
	if e.Tracks[1].Sleep != 6 {
		t.Fatalf("later track should sleep with the new rhythm unit: expected 6, got %v", e.Tracks[1].Sleep)
	}
	e = newEngine(t, 1, pwmseq.Sequence{0, 3, 0}, pwmseq.Sequence{7, 2, 0, 9, 0})
	e.Sequence()
	if e.Tracks[0].Sleep != 3 {
		t.Fatalf("earlier track should sleep with the old rhythm unit: expected 3, got %v", e.Tracks[0].Sleep)
	}
	if e.RhythmUnit != 2 {
		t.Fatalf("expected rhythm unit 2, got %v", e.RhythmUnit)
	}
}

func TestTick(t *testing.T) {
	e := newEngine(t, 1, pwmseq.Sequence{6, 1, 11, 1000, 3, 5, 0})
	outputs, recorders := newOutputs(1)
	for i := 0; i < 3; i++ {
		if err := e.Tick(outputs); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	expected := []write{{"period", 1000}, {"duty", 3 * vm.DefaultVolume}, {"period", 1000}, {"duty", 3 * vm.DefaultVolume}}
	if !reflect.DeepEqual(recorders[0].writes, expected) {
		t.Fatalf("got writes %v, expected %v", recorders[0].writes, expected)
	}
	if e.Ticks != 3 {
		t.Fatalf("expected 3 ticks, got %v", e.Ticks)
	}
}
