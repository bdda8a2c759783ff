package pwm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsariola/pwmseq"
)

type (
	// Context drives PWM channels through the Linux sysfs interface. Each
	// device is a directory containing the enable, period and duty_cycle
	// attributes, e.g. /dev/bone/pwm/0/a on a BeagleBone.
	Context struct {
		devices  []string
		acquired []*Output
	}

	// Output is a single sysfs PWM channel. Values are written as decimal
	// text; period and duty cycle are in nanoseconds.
	Output struct {
		dir string
	}
)

// BeagleBoneDevices are the PWM channels of the BeagleBone headers, in
// channel order.
var BeagleBoneDevices = []string{
	"/dev/bone/pwm/0/a",
	"/dev/bone/pwm/0/b",
	"/dev/bone/pwm/1/a",
	"/dev/bone/pwm/1/b",
}

// NewContext creates a context for the given device directories; nothing is
// touched before Outputs is called.
func NewContext(devices []string) *Context {
	return &Context{devices: append([]string{}, devices...)}
}

// Outputs acquires the first count devices: each channel is silenced (duty
// cycle 0) and enabled. Calling Outputs again returns the same outputs for
// the channels already acquired; Close releases every channel once.
func (c *Context) Outputs(count int) ([]pwmseq.Output, error) {
	if count > len(c.devices) {
		return nil, fmt.Errorf("cannot acquire %v pwm channels; only %v devices configured", count, len(c.devices))
	}
	ret := make([]pwmseq.Output, count)
	for i := 0; i < count; i++ {
		if i < len(c.acquired) {
			ret[i] = c.acquired[i]
			continue
		}
		o := &Output{dir: c.devices[i]}
		if err := o.SetDutyCycle(0); err != nil {
			return nil, &pwmseq.SinkError{Channel: i, Op: "acquire", Err: err}
		}
		if err := o.SetEnabled(true); err != nil {
			return nil, &pwmseq.SinkError{Channel: i, Op: "acquire", Err: err}
		}
		c.acquired = append(c.acquired, o)
		ret[i] = o
	}
	return ret, nil
}

// Close silences and disables every acquired channel. It tries all of them
// even if some fail.
func (c *Context) Close() error {
	var errs []error
	for i, o := range c.acquired {
		if err := o.SetDutyCycle(0); err != nil {
			errs = append(errs, &pwmseq.SinkError{Channel: i, Op: "release", Err: err})
			continue
		}
		if err := o.SetEnabled(false); err != nil {
			errs = append(errs, &pwmseq.SinkError{Channel: i, Op: "release", Err: err})
		}
	}
	c.acquired = nil
	return errors.Join(errs...)
}

func (o *Output) SetEnabled(enabled bool) error {
	v := uint32(0)
	if enabled {
		v = 1
	}
	return writeAttribute(filepath.Join(o.dir, "enable"), v)
}

func (o *Output) SetPeriod(period uint32) error {
	return writeAttribute(filepath.Join(o.dir, "period"), period)
}

func (o *Output) SetDutyCycle(duty uint32) error {
	return writeAttribute(filepath.Join(o.dir, "duty_cycle"), duty)
}

// writeAttribute opens, writes and closes the attribute on every call; sysfs
// attributes take a whole value per write.
func writeAttribute(path string, value uint32) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", path, err)
	}
	if _, err := f.WriteString(strconv.FormatUint(uint64(value), 10)); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %v: %w", path, err)
	}
	return nil
}
