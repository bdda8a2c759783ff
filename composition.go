package pwmseq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Composition is the compiled score played by the engine: one bytecode
	// Sequence for each PWM channel and the initial RhythmUnit, i.e. how many
	// ticks one sleep unit of the bytecode lasts. Sequence i always drives
	// channel i; there are never more sequences than channels. A Composition
	// is treated as immutable once loaded; the engine only reads it.
	Composition struct {
		RhythmUnit uint32
		Sequences  []Sequence `yaml:",flow"`
	}

	// Sequence is the bytecode of a single track, in practice just a slice of
	// words. The first word of every instruction is the opcode and the words
	// following it are its operands. See the vm package for the instruction
	// set.
	Sequence []uint32
)

// MaxChannels is the number of PWM outputs the player can drive.
const MaxChannels = 4

// Get returns the word at index; or 0 if the index is out of range
func (s Sequence) Get(index int) uint32 {
	if index < 0 || index >= len(s) {
		return 0
	}
	return s[index]
}

// Copy makes a deep copy of a Composition.
func (c *Composition) Copy() Composition {
	sequences := make([]Sequence, len(c.Sequences))
	for i, s := range c.Sequences {
		sequences[i] = append(Sequence{}, s...)
	}
	return Composition{RhythmUnit: c.RhythmUnit, Sequences: sequences}
}

// NumWords returns the total number of bytecode words in the Composition;
// summing the lengths of every sequence
func (c *Composition) NumWords() (ret int) {
	for _, s := range c.Sequences {
		ret += len(s)
	}
	return
}

// Validate checks if the Composition can be played: at least one and at most
// MaxChannels sequences, none of them empty, and a non-zero RhythmUnit. An
// empty sequence would sit at its end forever and rewind every track on every
// tick.
func (c *Composition) Validate() error {
	if len(c.Sequences) == 0 {
		return errors.New("composition contains no sequences")
	}
	if len(c.Sequences) > MaxChannels {
		return fmt.Errorf("composition has %v sequences, but only %v channels are available", len(c.Sequences), MaxChannels)
	}
	for i, s := range c.Sequences {
		if len(s) == 0 {
			return fmt.Errorf("sequence %v is empty", i)
		}
	}
	if c.RhythmUnit == 0 {
		return errors.New("RhythmUnit should be > 0")
	}
	return nil
}

// ParseComposition unmarshals a Composition from .json or .yml data and
// validates it.
func ParseComposition(data []byte) (Composition, error) {
	var c Composition
	if errJSON := json.Unmarshal(data, &c); errJSON != nil {
		c = Composition{}
		if errYaml := yaml.Unmarshal(data, &c); errYaml != nil {
			return Composition{}, fmt.Errorf("the composition could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	if err := c.Validate(); err != nil {
		return Composition{}, fmt.Errorf("invalid composition: %w", err)
	}
	return c, nil
}

// LoadComposition reads and parses a composition file.
func LoadComposition(path string) (Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Composition{}, fmt.Errorf("could not read file %v: %w", path, err)
	}
	c, err := ParseComposition(data)
	if err != nil {
		return Composition{}, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}
