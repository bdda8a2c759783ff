package vm

import "github.com/vsariola/pwmseq"

// Track is the playback cursor of one sequence. Track i always writes to
// channel i.
type Track struct {
	Sequence pwmseq.Sequence
	// Position points to the opcode of the next instruction, or at the end of
	// the sequence.
	Position int
	// Jump is the position of the repeat instruction that last jumped
	// backwards, or 0 if no repeat is in progress.
	Jump int
	// Sleep is the number of ticks to wait before decoding the next
	// instruction.
	Sleep uint64
}

// Length returns the number of words in the sequence.
func (t *Track) Length() int {
	return len(t.Sequence)
}

// AtEnd reports whether there is nothing more to decode. Note that the last
// word of a sequence is never decoded.
func (t *Track) AtEnd() bool {
	return t.Position >= len(t.Sequence)-1
}

// Finished reports whether the track is at its end and done sleeping, i.e.
// the whole composition should loop.
func (t *Track) Finished() bool {
	return t.AtEnd() && t.Sleep == 0
}

func (t *Track) rewind() {
	t.Position = 0
	t.Jump = 0
	t.Sleep = 0
}

// instructionWidth returns the number of words in the instruction starting
// with code, operands included; 0 for unknown opcodes.
func instructionWidth(code uint32) int {
	switch {
	case code == opSleep, code == opTone, code == opInstrument, code == opRhythm, code == opRepeat:
		return 2
	case code >= opPitches && code < opPitches+MaxPitches:
		return int(code) + 2
	case code >= opPitchesTone && code < opPitchesTone+MaxPitches:
		return int(code-opPitchesTone+1) + 3
	case code == opToneSleep:
		return 3
	}
	return 0
}

// readTrack advances track index by one tick: either sleeps, idles at the
// end, or decodes exactly one instruction.
func (e *Engine) readTrack(index int) {
	t := &e.Tracks[index]
	if t.Sleep > 0 {
		t.Sleep--
		return
	}
	if t.AtEnd() {
		t.Sleep = 0
		return
	}
	pos := t.Position
	code := t.Sequence[pos]
	width := instructionWidth(code)
	if width == 0 {
		e.diagnostics.Report(Diagnostic{Kind: UnknownOpcode, Track: index, Position: pos, Opcode: code})
		t.Position = pos + 1
		return
	}
	if pos+width > len(t.Sequence) {
		e.diagnostics.Report(Diagnostic{Kind: Truncated, Track: index, Position: pos, Opcode: code})
		t.Position = pos + 1
		return
	}
	operands := t.Sequence[pos+1 : pos+width]
	c := &e.Channels[index]
	switch {
	case code == opSleep:
		t.Sleep = e.sleepTicks(operands[0])
	case code >= opPitches && code < opPitches+MaxPitches:
		n := int(code)
		c.Pitches.set(operands[:n])
		c.NextPitch = 0
		t.Sleep = e.sleepTicks(operands[n])
	case code >= opPitchesTone && code < opPitchesTone+MaxPitches:
		n := int(code - opPitchesTone + 1)
		c.Pitches.set(operands[:n])
		c.NextPitch = 0
		c.Tone = operands[n]
		t.Sleep = e.sleepTicks(operands[n+1])
	case code == opTone:
		c.Tone = operands[0]
	case code == opInstrument:
		if !Instrument(operands[0]).Valid() {
			e.diagnostics.Report(Diagnostic{Kind: BadInstrument, Track: index, Position: pos, Opcode: code, Operand: operands[0]})
			break
		}
		c.Instrument = Instrument(operands[0])
	case code == opRhythm:
		e.RhythmUnit = operands[0]
	case code == opRepeat:
		if t.Jump == pos {
			// second arrival: the span has been repeated, fall through
			t.Jump = 0
			break
		}
		back := operands[0]
		if uint64(back) > uint64(pos) {
			e.diagnostics.Report(Diagnostic{Kind: BadJump, Track: index, Position: pos, Opcode: code, Operand: back})
			t.Jump = 0
			break
		}
		t.Jump = pos
		t.Position = pos - int(back)
		return
	case code == opToneSleep:
		c.Tone = operands[0]
		t.Sleep = e.sleepTicks(operands[1])
	}
	t.Position = pos + width
}

func (e *Engine) sleepTicks(units uint32) uint64 {
	return uint64(units) * uint64(e.RhythmUnit)
}

func (p *Pitches) set(values []uint32) {
	p.count = copy(p.values[:], values)
}
