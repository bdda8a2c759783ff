package record_test

import (
	"errors"
	"testing"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/record"
	"gitlab.com/gomidi/midi/v2"
)

func TestLiveSendsNotes(t *testing.T) {
	var sent []string
	l := &record.Live{Send: func(msg midi.Message) error {
		sent = append(sent, msg.String())
		return nil
	}}
	outputs, err := l.Outputs(2)
	if err != nil {
		t.Fatalf("Outputs failed: %v", err)
	}
	outputs[1].SetPeriod(2272727)
	outputs[1].SetDutyCycle(1000000)
	outputs[1].SetPeriod(2272727)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	expected := []string{
		midi.NoteOn(1, 69, 111).String(),
		midi.NoteOff(1, 69).String(),
	}
	if len(sent) != len(expected) || sent[0] != expected[0] || sent[1] != expected[1] {
		t.Fatalf("sent %v, expected %v", sent, expected)
	}
}

func TestLiveSendError(t *testing.T) {
	l := &record.Live{Send: func(msg midi.Message) error { return errors.New("port closed") }}
	outputs, err := l.Outputs(1)
	if err != nil {
		t.Fatalf("Outputs failed: %v", err)
	}
	outputs[0].SetPeriod(2272727)
	if err := outputs[0].SetDutyCycle(1000); err == nil {
		t.Fatalf("expected the failed send to be returned")
	}
	var sinkErr *pwmseq.SinkError
	if err := l.Close(); !errors.As(err, &sinkErr) {
		t.Fatalf("expected a SinkError from Close, got %v", err)
	}
}
