package vm_test

import (
	"testing"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/vm"
)

type write struct {
	Op    string
	Value uint32
}

// recordingOutput remembers every write; if failOn is set, writes of that
// operation fail with err.
type recordingOutput struct {
	writes []write
	failOn string
	err    error
}

func (o *recordingOutput) SetEnabled(enabled bool) error {
	v := uint32(0)
	if enabled {
		v = 1
	}
	return o.record("enable", v)
}

func (o *recordingOutput) SetPeriod(period uint32) error {
	return o.record("period", period)
}

func (o *recordingOutput) SetDutyCycle(duty uint32) error {
	return o.record("duty", duty)
}

func (o *recordingOutput) record(op string, v uint32) error {
	if o.failOn == op {
		return o.err
	}
	o.writes = append(o.writes, write{op, v})
	return nil
}

func newEngine(t *testing.T, rhythmUnit uint32, sequences ...pwmseq.Sequence) *vm.Engine {
	t.Helper()
	e, err := vm.NewEngine(pwmseq.Composition{RhythmUnit: rhythmUnit, Sequences: sequences}, vm.EngineOptions{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func newOutputs(n int) ([]pwmseq.Output, []*recordingOutput) {
	outputs := make([]pwmseq.Output, n)
	recorders := make([]*recordingOutput, n)
	for i := range outputs {
		recorders[i] = &recordingOutput{}
		outputs[i] = recorders[i]
	}
	return outputs, recorders
}

type diagnosticsCollector []vm.Diagnostic

func (c *diagnosticsCollector) diagnostics() vm.Diagnostics {
	return vm.DiagnosticsFunc(func(d vm.Diagnostic) { *c = append(*c, d) })
}

func (c diagnosticsCollector) kinds() []vm.DiagnosticKind {
	var ret []vm.DiagnosticKind
	for _, d := range c {
		ret = append(ret, d.Kind)
	}
	return ret
}
