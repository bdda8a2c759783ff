package compiler

import (
	"slices"

	"github.com/vsariola/pwmseq"
)

// EncodedComposition is a composition with identical sequences stored once.
// Channel i plays Sequences[Channels[i]].
type EncodedComposition struct {
	RhythmUnit uint32
	Sequences  []pwmseq.Sequence
	Channels   []int
}

// EncodeComposition deduplicates the sequences of c. Unique sequences keep
// the order in which they first appear.
func EncodeComposition(c pwmseq.Composition) EncodedComposition {
	ret := EncodedComposition{RhythmUnit: c.RhythmUnit}
	for _, s := range c.Sequences {
		index := slices.IndexFunc(ret.Sequences, func(u pwmseq.Sequence) bool { return slices.Equal(u, s) })
		if index == -1 {
			index = len(ret.Sequences)
			ret.Sequences = append(ret.Sequences, slices.Clone(s))
		}
		ret.Channels = append(ret.Channels, index)
	}
	return ret
}

// NumWords returns the number of words stored, after deduplication.
func (e EncodedComposition) NumWords() int {
	total := 0
	for _, s := range e.Sequences {
		total += len(s)
	}
	return total
}
