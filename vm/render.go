package vm

import (
	"fmt"
	"math"

	"github.com/vsariola/pwmseq"
)

// Render writes the state of every channel to its output. outputs[i] is the
// output of channel i. The first failing write stops the rendering and is
// returned as a *pwmseq.SinkError.
func (e *Engine) Render(outputs []pwmseq.Output) error {
	if len(outputs) < len(e.Channels) {
		return fmt.Errorf("cannot render %v channels to %v outputs", len(e.Channels), len(outputs))
	}
	for i := range e.Channels {
		if op, err := e.renderChannel(&e.Channels[i], outputs[i]); err != nil {
			return &pwmseq.SinkError{Channel: i, Op: op, Err: err}
		}
	}
	return nil
}

// renderChannel returns the name of the failed operation along with the error.
func (e *Engine) renderChannel(c *Channel, output pwmseq.Output) (string, error) {
	switch c.Instrument {
	case Silence:
		return "", nil
	case Regular:
		if c.Pitches.Len() == 0 {
			return "", nil
		}
		if c.NextPitch >= c.Pitches.Len() {
			c.NextPitch = 0
		}
		if err := output.SetPeriod(c.Pitches.At(c.NextPitch)); err != nil {
			return "set period", err
		}
		if err := output.SetDutyCycle(dutyCycle(c.Tone, e.Volume)); err != nil {
			return "set duty cycle", err
		}
		c.PolyCycleCounter++
		if c.PolyCycleCounter >= c.PolyCycleThreshold {
			c.PolyCycleCounter = 0
			c.NextPitch = (c.NextPitch + 1) % c.Pitches.Len()
		}
	}
	return "", nil
}

// dutyCycle scales the tone by the volume, saturating at the range of the
// duty cycle attribute.
func dutyCycle(tone uint32, volume float32) uint32 {
	d := float32(tone) * volume
	switch {
	case d >= math.MaxUint32:
		return math.MaxUint32
	case d <= 0:
		return 0
	}
	return uint32(d)
}
