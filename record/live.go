package record

import (
	"errors"
	"fmt"

	"github.com/vsariola/pwmseq"
	"gitlab.com/gomidi/midi/v2"
)

// Live is an OutputContext sending the notes as they are played, e.g. to a
// software synth through OpenPort.
type Live struct {
	Send    func(msg midi.Message) error
	release func() error
	outputs []*notes
}

func (l *Live) Outputs(count int) ([]pwmseq.Output, error) {
	if count > MaxOutputs {
		return nil, fmt.Errorf("cannot play %v channels; MIDI has only %v", count, MaxOutputs)
	}
	l.outputs = make([]*notes, count)
	ret := make([]pwmseq.Output, count)
	for i := range l.outputs {
		n := newNotes(uint8(i), l.Send)
		l.outputs[i] = &n
		ret[i] = &n
	}
	return ret, nil
}

// Close ends all sounding notes and closes the port, if any.
func (l *Live) Close() error {
	var errs []error
	for i, n := range l.outputs {
		if err := n.noteOff(); err != nil {
			errs = append(errs, &pwmseq.SinkError{Channel: i, Op: "release", Err: err})
		}
	}
	l.outputs = nil
	if l.release != nil {
		errs = append(errs, l.release())
		l.release = nil
	}
	return errors.Join(errs...)
}
