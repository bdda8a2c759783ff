package vm

import (
	"fmt"
	"log"
)

type (
	// Diagnostic reports something unusual the engine met while playing.
	// None of them stop the playback: malformed instructions are skipped.
	Diagnostic struct {
		Kind     DiagnosticKind
		Track    int
		Position int    // position of the instruction in the sequence
		Opcode   uint32 // the opcode word at Position
		Operand  uint32 // the offending operand, if any
	}

	DiagnosticKind int

	// Diagnostics receives the diagnostics of an Engine.
	Diagnostics interface {
		Report(d Diagnostic)
	}

	// DiagnosticsFunc adapts a function into Diagnostics.
	DiagnosticsFunc func(d Diagnostic)

	// LogDiagnostics prints diagnostics to a log.Logger. Rewinds happen on
	// every loop of the composition, so they are printed only if Verbose.
	LogDiagnostics struct {
		Logger  *log.Logger
		Verbose bool
	}

	nullDiagnostics struct{}
)

const (
	UnknownOpcode DiagnosticKind = iota // opcode not in the instruction set
	Truncated                           // operands run past the end of the sequence
	BadInstrument                       // instrument index not in the instrument set
	BadJump                             // repeat would jump before the start of the sequence
	Rewind                              // a track reached its end and all tracks were rewound
)

var diagnosticKindNames = []string{"unknown opcode", "truncated instruction", "bad instrument", "bad jump", "rewind"}

func (k DiagnosticKind) String() string {
	if k < 0 || int(k) >= len(diagnosticKindNames) {
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
	return diagnosticKindNames[k]
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case Rewind:
		return fmt.Sprintf("track %v: rewind", d.Track)
	case BadInstrument, BadJump:
		return fmt.Sprintf("track %v, position %v: %v %v (opcode %v)", d.Track, d.Position, d.Kind, d.Operand, d.Opcode)
	default:
		return fmt.Sprintf("track %v, position %v: %v %v", d.Track, d.Position, d.Kind, d.Opcode)
	}
}

func (f DiagnosticsFunc) Report(d Diagnostic) {
	f(d)
}

func (l LogDiagnostics) Report(d Diagnostic) {
	if l.Logger == nil || (d.Kind == Rewind && !l.Verbose) {
		return
	}
	l.Logger.Print(d)
}

func (nullDiagnostics) Report(Diagnostic) {}
