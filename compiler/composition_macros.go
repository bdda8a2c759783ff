package compiler

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/vm"
)

type CompositionMacros struct {
	Composition pwmseq.Composition
	Encoded     EncodedComposition
	Name        string
	MaxChannels int
	Compiler
}

// Line is one line of words in a generated table, with an optional comment.
type Line struct {
	Words   string
	Comment string
}

// The firmware stores sequence lengths and the initial rhythm unit as
// uint16_t.
const (
	MaxFirmwareSequenceLength = math.MaxUint16
	MaxFirmwareRhythmUnit     = math.MaxUint16
)

// wordsPerLine is the width of the tables when no listing is generated.
const wordsPerLine = 8

func NewCompositionMacros(c Compiler, composition pwmseq.Composition, encoded EncodedComposition, name string) *CompositionMacros {
	return &CompositionMacros{
		Composition: composition,
		Encoded:     encoded,
		Name:        name,
		MaxChannels: pwmseq.MaxChannels,
		Compiler:    c,
	}
}

// Identifier returns Name with everything but letters and digits replaced by
// underscores, so that sprig's snakecase and camelcase give valid C and Go
// identifiers.
func (m *CompositionMacros) Identifier() string {
	var b strings.Builder
	for _, r := range m.Name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	ret := strings.Trim(b.String(), "_")
	if ret == "" || unicode.IsDigit(rune(ret[0])) {
		ret = "music_" + ret
	}
	return ret
}

// Lines splits the sequence into table lines. With Listing, each instruction
// is on its own line, commented with its disassembly.
func (m *CompositionMacros) Lines(s pwmseq.Sequence) []Line {
	var ret []Line
	if !m.Listing {
		for i := 0; i < len(s); i += wordsPerLine {
			ret = append(ret, Line{Words: words(s[i:min(i+wordsPerLine, len(s))])})
		}
		return ret
	}
	for _, instr := range vm.Disassemble(s) {
		w := append([]uint32{instr.Opcode}, instr.Operands...)
		ret = append(ret, Line{Words: words(w), Comment: instr.String()})
	}
	return ret
}

func words(w []uint32) string {
	var b strings.Builder
	for _, v := range w {
		fmt.Fprintf(&b, "%v, ", v)
	}
	return strings.TrimSuffix(b.String(), " ")
}

// CheckFirmwareLimits fails the template if the composition does not fit the
// firmware tables; it outputs nothing.
func (m *CompositionMacros) CheckFirmwareLimits() (string, error) {
	if m.Encoded.RhythmUnit > MaxFirmwareRhythmUnit {
		return "", fmt.Errorf("rhythm unit %v does not fit the firmware (max %v)", m.Encoded.RhythmUnit, MaxFirmwareRhythmUnit)
	}
	for i, s := range m.Encoded.Sequences {
		if len(s) > MaxFirmwareSequenceLength {
			return "", fmt.Errorf("sequence %v has %v words; the firmware holds at most %v", i, len(s), MaxFirmwareSequenceLength)
		}
	}
	return "", nil
}
