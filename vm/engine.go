package vm

import (
	"fmt"

	"github.com/vsariola/pwmseq"
)

type (
	// Engine plays a Composition: it owns one Track and one Channel for every
	// sequence and the tempo shared by all of them. An Engine is not safe for
	// concurrent use; everything happens on the goroutine calling Tick.
	Engine struct {
		// RhythmUnit is the number of ticks one bytecode sleep unit lasts.
		// Any track can change it, and the change is seen by the tracks read
		// after it, already on the same tick.
		RhythmUnit uint32
		// Volume scales the tone of a channel into its duty cycle.
		Volume   float32
		Channels []Channel
		Tracks   []Track

		Ticks uint64 // number of ticks played
		Loops int    // number of times the composition has been rewound

		diagnostics Diagnostics
	}

	// EngineOptions configures a new Engine. Zero values mean defaults.
	EngineOptions struct {
		Volume             float32
		PolyCycleThreshold int
		Diagnostics        Diagnostics
	}
)

// DefaultVolume is the volume used when none is given.
const DefaultVolume = 512

// NewEngine creates the tracks and channels for the composition. The
// sequences are shared with the composition, not copied; neither is ever
// modified.
func NewEngine(c pwmseq.Composition, options EngineOptions) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot create engine: %w", err)
	}
	if options.PolyCycleThreshold < 0 {
		return nil, fmt.Errorf("cannot create engine: negative poly cycle threshold %v", options.PolyCycleThreshold)
	}
	threshold := options.PolyCycleThreshold
	if threshold == 0 {
		threshold = DefaultPolyCycleThreshold
	}
	e := &Engine{
		RhythmUnit:  c.RhythmUnit,
		Volume:      options.Volume,
		Channels:    make([]Channel, len(c.Sequences)),
		Tracks:      make([]Track, len(c.Sequences)),
		diagnostics: options.Diagnostics,
	}
	if e.Volume == 0 {
		e.Volume = DefaultVolume
	}
	if e.diagnostics == nil {
		e.diagnostics = nullDiagnostics{}
	}
	for i, s := range c.Sequences {
		e.Channels[i] = newChannel(threshold)
		e.Tracks[i] = Track{Sequence: s}
	}
	return e, nil
}

// Sequence advances every track by one tick. If any track has finished, all
// tracks are rewound first, so the composition always loops as a whole and
// the tracks never drift apart.
func (e *Engine) Sequence() {
	for i := range e.Tracks {
		if e.Tracks[i].Finished() {
			pos := e.Tracks[i].Position
			e.Rewind()
			e.diagnostics.Report(Diagnostic{Kind: Rewind, Track: i, Position: pos})
			break
		}
	}
	for i := range e.Tracks {
		e.readTrack(i)
	}
}

// AtLoopEnd reports whether the next Sequence starts the composition over.
func (e *Engine) AtLoopEnd() bool {
	for i := range e.Tracks {
		if e.Tracks[i].Finished() {
			return true
		}
	}
	return false
}

// LoopLength returns the number of ticks the composition plays before it
// starts over, or false if it does not loop within limit ticks; nested
// repeats can keep a track from ever finishing.
func LoopLength(c pwmseq.Composition, limit uint64) (uint64, bool) {
	e, err := NewEngine(c, EngineOptions{})
	if err != nil {
		return 0, false
	}
	for n := uint64(1); n <= limit; n++ {
		e.Sequence()
		if e.AtLoopEnd() {
			return n, true
		}
	}
	return 0, false
}

// Rewind moves every track to the start of its sequence, forgetting any
// sleeps and repeats in progress. The channels and the rhythm unit keep their
// state.
func (e *Engine) Rewind() {
	for i := range e.Tracks {
		e.Tracks[i].rewind()
	}
	e.Loops++
}

// Tick plays one tick: sequences all tracks, then renders all channels to
// outputs.
func (e *Engine) Tick(outputs []pwmseq.Output) error {
	e.Sequence()
	if err := e.Render(outputs); err != nil {
		return err
	}
	e.Ticks++
	return nil
}
