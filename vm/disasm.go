package vm

import (
	"fmt"
	"strings"

	"github.com/vsariola/pwmseq"
)

// Instruction is a decoded instruction of a sequence, for listings and
// debugging; the engine itself decodes on the fly.
type Instruction struct {
	Position int
	Opcode   uint32
	Operands []uint32
	// Malformed is true for unknown opcodes and instructions whose operands
	// run past the end of the sequence.
	Malformed bool
	// Tail is true for the last word of a sequence, which is never executed.
	Tail bool
}

// Disassemble splits the sequence into instructions, from start to end. The
// sweep is linear, so it shows the code as laid out, not in the order
// repeats execute it. Malformed instructions take one word, like in the
// engine.
func Disassemble(s pwmseq.Sequence) []Instruction {
	var ret []Instruction
	pos := 0
	for pos < len(s) {
		code := s[pos]
		if pos == len(s)-1 {
			ret = append(ret, Instruction{Position: pos, Opcode: code, Tail: true})
			break
		}
		width := instructionWidth(code)
		if width == 0 || pos+width > len(s) {
			ret = append(ret, Instruction{Position: pos, Opcode: code, Malformed: true})
			pos++
			continue
		}
		ret = append(ret, Instruction{Position: pos, Opcode: code, Operands: append([]uint32{}, s[pos+1:pos+width]...)})
		pos += width
	}
	return ret
}

func (i Instruction) String() string {
	if i.Tail {
		return fmt.Sprintf("end %v", i.Opcode)
	}
	if i.Malformed {
		if instructionWidth(i.Opcode) == 0 {
			return fmt.Sprintf("unknown %v", i.Opcode)
		}
		return fmt.Sprintf("truncated %v", i.Opcode)
	}
	o := i.Operands
	switch {
	case i.Opcode == opSleep:
		return fmt.Sprintf("sleep %v", o[0])
	case i.Opcode >= opPitches && i.Opcode < opPitches+MaxPitches:
		n := int(i.Opcode)
		return fmt.Sprintf("play %v sleep %v", joinWords(o[:n]), o[n])
	case i.Opcode >= opPitchesTone && i.Opcode < opPitchesTone+MaxPitches:
		n := int(i.Opcode - opPitchesTone + 1)
		return fmt.Sprintf("play %v tone %v sleep %v", joinWords(o[:n]), o[n], o[n+1])
	case i.Opcode == opTone:
		return fmt.Sprintf("tone %v", o[0])
	case i.Opcode == opInstrument:
		if !Instrument(o[0]).Valid() {
			return fmt.Sprintf("instrument %v", o[0])
		}
		return fmt.Sprintf("instrument %v", Instrument(o[0]))
	case i.Opcode == opRhythm:
		return fmt.Sprintf("rhythm %v", o[0])
	case i.Opcode == opRepeat:
		return fmt.Sprintf("repeat -%v (to %v)", o[0], i.Position-int(o[0]))
	case i.Opcode == opToneSleep:
		return fmt.Sprintf("tone %v sleep %v", o[0], o[1])
	}
	return fmt.Sprintf("unknown %v", i.Opcode)
}

func joinWords(words []uint32) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprint(w)
	}
	return strings.Join(parts, " ")
}

// Instrument returns the instrument selected by a well-formed instrument
// instruction. The instrument may be invalid.
func (i Instruction) Instrument() (Instrument, bool) {
	if i.Opcode != opInstrument || i.Malformed || i.Tail {
		return Silence, false
	}
	return Instrument(i.Operands[0]), true
}
