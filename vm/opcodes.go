package vm

import "fmt"

// Opcodes of the track bytecode. Operands follow the opcode word; sleeps are
// given in rhythm units and converted to ticks when executed.
const (
	opSleep       = 0  // sleep
	opPitches     = 1  // 1..4: n pitches, sleep
	opTone        = 5  // tone
	opInstrument  = 6  // instrument index
	opRhythm      = 7  // new rhythm unit
	opRepeat      = 8  // backward offset; repeats the span once
	opToneSleep   = 9  // tone, sleep
	opPitchesTone = 11 // 11..14: n pitches, tone, sleep
)

// MaxPitches is the number of pitches a channel can alternate between.
const MaxPitches = 4

// Instrument decides how a channel is rendered. The set of instruments is
// closed; the bytecode selects one by its index.
type Instrument int

const (
	// Silence renders nothing; the output keeps whatever it last had.
	Silence Instrument = iota
	// Regular plays the active pitches, cycling through them to fake a chord.
	Regular
	numInstruments
)

var instrumentNames = [numInstruments]string{"silence", "regular"}

func (i Instrument) String() string {
	if i < 0 || i >= numInstruments {
		return fmt.Sprintf("instrument(%d)", int(i))
	}
	return instrumentNames[i]
}

// Valid reports whether i is one of the known instruments.
func (i Instrument) Valid() bool {
	return i >= 0 && i < numInstruments
}
