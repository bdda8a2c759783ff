package record

import (
	"math"

	"gitlab.com/gomidi/midi/v2"
)

// notes is a pwmseq.Output that turns the writes of one channel into MIDI
// note events. A new note starts whenever the pitch changes; duty cycle 0 or
// disabling the channel ends the note.
type notes struct {
	channel uint8
	enabled bool
	period  uint32
	duty    uint32
	note    int // sounding note, or -1
	emit    func(midi.Message) error
}

func newNotes(channel uint8, emit func(midi.Message) error) notes {
	return notes{channel: channel, enabled: true, note: -1, emit: emit}
}

func (n *notes) SetEnabled(enabled bool) error {
	n.enabled = enabled
	return n.update()
}

func (n *notes) SetPeriod(period uint32) error {
	n.period = period
	return n.update()
}

func (n *notes) SetDutyCycle(duty uint32) error {
	n.duty = duty
	return n.update()
}

func (n *notes) update() error {
	note := PeriodToNote(n.period)
	if !n.enabled || n.duty == 0 || note < 0 {
		return n.noteOff()
	}
	if note == n.note {
		return nil
	}
	if err := n.noteOff(); err != nil {
		return err
	}
	n.note = note
	return n.emit(midi.NoteOn(n.channel, uint8(note), n.velocity()))
}

func (n *notes) noteOff() error {
	if n.note < 0 {
		return nil
	}
	note := n.note
	n.note = -1
	return n.emit(midi.NoteOff(n.channel, uint8(note)))
}

// velocity maps the duty ratio to a MIDI velocity; a square wave (50%) is the
// loudest.
func (n *notes) velocity() uint8 {
	v := uint64(n.duty) * 254 / uint64(n.period)
	return uint8(min(max(v, 1), 127))
}

// PeriodToNote returns the MIDI note closest to a PWM period given in
// nanoseconds; -1 if the period is 0 or the note is outside the MIDI range.
func PeriodToNote(period uint32) int {
	if period == 0 {
		return -1
	}
	freq := 1e9 / float64(period)
	note := int(math.Round(69 + 12*math.Log2(freq/440)))
	if note < 0 || note > 127 {
		return -1
	}
	return note
}
