package vm_test

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/vm"
)

const regressionTicks = 1500

func TestAllRegressionTests(t *testing.T) {
	_, myname, _, _ := runtime.Caller(0)
	ymlfiles, err := filepath.Glob(path.Join(path.Dir(myname), "..", "tests", "*.yml"))
	if err != nil {
		t.Fatalf("cannot glob files in the test directory: %v", err)
	}
	jsonfiles, err := filepath.Glob(path.Join(path.Dir(myname), "..", "tests", "*.json"))
	if err != nil {
		t.Fatalf("cannot glob files in the test directory: %v", err)
	}
	files := append(ymlfiles, jsonfiles...)
	if len(files) == 0 {
		t.Fatalf("no regression compositions found")
	}
	for _, filename := range files {
		basename := filepath.Base(filename)
		testname := strings.TrimSuffix(basename, path.Ext(basename))
		t.Run(basename, func(t *testing.T) {
			composition, err := pwmseq.LoadComposition(filename)
			if err != nil {
				t.Fatalf("could not load %v: %v", testname, err)
			}
			var diags diagnosticsCollector
			e, err := vm.NewEngine(composition, vm.EngineOptions{Diagnostics: diags.diagnostics()})
			if err != nil {
				t.Fatalf("NewEngine failed: %v", err)
			}
			outputs, recorders := newOutputs(len(composition.Sequences))
			var log writeLog
			clock := vm.Clock{MaxTicks: regressionTicks, Sleep: func(time.Duration) { log.add(recorders) }}
			if err := clock.Run(context.Background(), e, outputs); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if e.Loops == 0 {
				t.Fatalf("composition did not loop in %v ticks", regressionTicks)
			}
			for _, d := range diags {
				if d.Kind != vm.Rewind {
					t.Fatalf("unexpected diagnostic: %v", d)
				}
			}
			actual := log.String()
			if os.Getenv("PWMSEQ_TEST_SAVE_OUTPUT") == "YES" {
				outputpath := path.Join(path.Dir(myname), "actual_output")
				if err := os.MkdirAll(outputpath, 0755); err != nil {
					t.Fatalf("Creating directory failed: %v", err)
				}
				if err := os.WriteFile(path.Join(outputpath, testname+".txt"), []byte(actual), 0644); err != nil {
					t.Fatalf("Writing file failed: %v", err)
				}
			}
			compareToLog(t, actual, testname+".txt")
		})
	}
}

// writeLog has one line per tick listing the writes of all channels in
// order, e.g. "0:period=3822256 0:duty=512000", or "-" for no writes. Runs
// of identical ticks are collapsed to a single line prefixed by the tick
// range, e.g. "1-41 0:period=3822256 0:duty=512000".
type writeLog struct {
	lines []string
	ticks []int // first tick of each line
	tick  int
}

// add takes the writes of one tick from the recorders, clearing them.
func (l *writeLog) add(recorders []*recordingOutput) {
	var parts []string
	for i, r := range recorders {
		for _, w := range r.writes {
			parts = append(parts, fmt.Sprintf("%v:%v=%v", i, w.Op, w.Value))
		}
		r.writes = r.writes[:0]
	}
	line := strings.Join(parts, " ")
	if line == "" {
		line = "-"
	}
	if n := len(l.lines); n == 0 || l.lines[n-1] != line {
		l.lines = append(l.lines, line)
		l.ticks = append(l.ticks, l.tick)
	}
	l.tick++
}

func (l *writeLog) String() string {
	var b strings.Builder
	for i, line := range l.lines {
		last := l.tick - 1
		if i+1 < len(l.ticks) {
			last = l.ticks[i+1] - 1
		}
		if last > l.ticks[i] {
			fmt.Fprintf(&b, "%v-%v %v\n", l.ticks[i], last, line)
		} else {
			fmt.Fprintf(&b, "%v %v\n", l.ticks[i], line)
		}
	}
	return b.String()
}

func compareToLog(t *testing.T, actual string, logname string) {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	expectedb, err := os.ReadFile(path.Join(path.Dir(filename), "..", "tests", "expected_output", logname))
	if err != nil {
		t.Fatalf("cannot read expected: %v", err)
	}
	expected := strings.Split(strings.TrimSpace(strings.ReplaceAll(string(expectedb), "\r\n", "\n")), "\n")
	got := strings.Split(strings.TrimSpace(actual), "\n")
	for i := 0; i < len(expected) && i < len(got); i++ {
		if got[i] != expected[i] {
			t.Fatalf("write log differs at line %v: got %q, expected %q", i+1, got[i], expected[i])
		}
	}
	if len(got) != len(expected) {
		t.Fatalf("write log length mismatch, got %v lines, expected %v", len(got), len(expected))
	}
}
