package vm

import "fmt"

type (
	// Pitches is the set of pitches a channel alternates between, in
	// practice a fixed array and a count. The pitch values are PWM periods,
	// written to the output as is.
	Pitches struct {
		values [MaxPitches]uint32
		count  int
	}

	// Channel is the render state of one PWM output. It is written by the
	// track bound to it and read by the renderer.
	Channel struct {
		Pitches Pitches
		// NextPitch is the index of the pitch sounding now; always less than
		// Pitches.Len() when there are pitches.
		NextPitch int
		// Tone is the duty cycle before it is scaled with the engine volume.
		Tone uint32
		// PolyCycleCounter counts rendered ticks, and when it reaches
		// PolyCycleThreshold, the channel moves to the next pitch.
		PolyCycleCounter   int
		PolyCycleThreshold int
		Instrument         Instrument
	}
)

// unsetPitch is what the pitch slots hold before anything has been played.
const unsetPitch = 255

// DefaultPolyCycleThreshold is how many ticks each pitch of a chord sounds.
const DefaultPolyCycleThreshold = 2

func newChannel(threshold int) Channel {
	c := Channel{PolyCycleThreshold: threshold, Instrument: Silence}
	for i := range c.Pitches.values {
		c.Pitches.values[i] = unsetPitch
	}
	return c
}

// Set replaces the pitches. Only MaxPitches pitches fit; giving more is an
// error and leaves the set untouched.
func (p *Pitches) Set(values ...uint32) error {
	if len(values) > MaxPitches {
		return fmt.Errorf("cannot set %v pitches; channel holds at most %v", len(values), MaxPitches)
	}
	copy(p.values[:], values)
	p.count = len(values)
	return nil
}

// Len returns the number of active pitches.
func (p *Pitches) Len() int {
	return p.count
}

// At returns the pitch at index; or 0 if the index is not an active pitch
func (p *Pitches) At(index int) uint32 {
	if index < 0 || index >= p.count {
		return 0
	}
	return p.values[index]
}

// Slice returns a copy of the active pitches.
func (p *Pitches) Slice() []uint32 {
	return append([]uint32{}, p.values[:p.count]...)
}

// Clear removes all active pitches; the channel goes quiet on the next render.
func (p *Pitches) Clear() {
	p.count = 0
}
