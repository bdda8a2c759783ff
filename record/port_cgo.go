//go:build cgo

package record

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// OpenPort opens the first MIDI output whose name starts with prefix; an
// empty prefix takes the first output.
func OpenPort(prefix string) (*Live, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("could not open the MIDI driver: %w", err)
	}
	outs, err := driver.Outs()
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("could not list MIDI outputs: %w", err)
	}
	for _, out := range outs {
		if !strings.HasPrefix(out.String(), prefix) {
			continue
		}
		if err := out.Open(); err != nil {
			driver.Close()
			return nil, fmt.Errorf("opening MIDI output %v failed: %w", out, err)
		}
		return &Live{
			Send: func(msg midi.Message) error { return out.Send(msg) },
			release: func() error {
				out.Close()
				return driver.Close()
			},
		}, nil
	}
	driver.Close()
	return nil, fmt.Errorf("could not find a MIDI output starting with %q", prefix)
}
