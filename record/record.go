// Package record turns what the engine plays into MIDI notes, either captured
// into a Standard MIDI File or sent live to a MIDI port, so a composition can
// be heard and inspected without the hardware.
package record

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsariola/pwmseq"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type (
	// Recorder is an OutputContext whose outputs turn PWM periods into MIDI
	// notes. Time advances only when Sleep is called, so using Sleep as the
	// sleep of the clock renders a composition as fast as possible, with one
	// MIDI tick per engine tick.
	Recorder struct {
		TickPeriod time.Duration
		now        uint64
		outputs    []*recorded
	}

	recorded struct {
		notes
		events []event
	}

	event struct {
		tick uint64
		msg  midi.Message
	}
)

// ticksPerQuarter is the resolution of the written file. The tempo is set so
// that one MIDI tick lasts one TickPeriod.
const ticksPerQuarter = 960

// MaxOutputs is the number of MIDI channels.
const MaxOutputs = 16

// New returns a Recorder for an engine ticking every tickPeriod.
func New(tickPeriod time.Duration) *Recorder {
	return &Recorder{TickPeriod: tickPeriod}
}

func (r *Recorder) Outputs(count int) ([]pwmseq.Output, error) {
	if count > MaxOutputs {
		return nil, fmt.Errorf("cannot record %v channels; MIDI has only %v", count, MaxOutputs)
	}
	r.outputs = make([]*recorded, count)
	ret := make([]pwmseq.Output, count)
	for i := range r.outputs {
		o := &recorded{}
		o.notes = newNotes(uint8(i), func(msg midi.Message) error {
			o.events = append(o.events, event{r.now, msg})
			return nil
		})
		r.outputs[i] = o
		ret[i] = o
	}
	return ret, nil
}

// Close ends all sounding notes.
func (r *Recorder) Close() error {
	for _, o := range r.outputs {
		o.noteOff()
	}
	return nil
}

// Sleep advances the recording by one tick, regardless of d.
func (r *Recorder) Sleep(d time.Duration) {
	r.now++
}

// Ticks returns the length of the recording so far.
func (r *Recorder) Ticks() uint64 {
	return r.now
}

// WriteTo writes the recording as a type 1 SMF: a tempo track followed by
// one track per output.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(r.bpm()))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return 0, fmt.Errorf("could not add tempo track: %w", err)
	}
	for i, o := range r.outputs {
		var tr smf.Track
		tr.Add(0, smf.MetaInstrument(fmt.Sprintf("pwm %v", i)))
		last := uint64(0)
		for _, e := range o.events {
			tr.Add(uint32(e.tick-last), e.msg)
			last = e.tick
		}
		if o.note >= 0 {
			tr.Add(uint32(r.now-last), midi.NoteOff(o.channel, uint8(o.note)))
			last = r.now
		}
		tr.Close(uint32(r.now - last))
		if err := s.Add(tr); err != nil {
			return 0, fmt.Errorf("could not add track %v: %w", i, err)
		}
	}
	return s.WriteTo(w)
}

// WriteFile writes the recording to a .mid file.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write %v: %w", path, err)
	}
	return f.Close()
}

func (r *Recorder) bpm() float64 {
	period := r.TickPeriod
	if period <= 0 {
		period = time.Millisecond
	}
	return float64(time.Minute) / (float64(period) * ticksPerQuarter)
}
