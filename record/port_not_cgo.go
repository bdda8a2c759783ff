//go:build !cgo

package record

import "errors"

// OpenPort always fails: the MIDI drivers need cgo.
func OpenPort(prefix string) (*Live, error) {
	return nil, errors.New("MIDI outputs are not available in builds without cgo")
}
