package pwm

import (
	"log"

	"github.com/vsariola/pwmseq"
)

type (
	// LogContext is a dry-run context: its outputs only log the writes. If
	// Quiet, nothing is logged; useful for timing the engine alone.
	LogContext struct {
		Logger *log.Logger
		Quiet  bool
	}

	logOutput struct {
		channel int
		context *LogContext
	}
)

func (c *LogContext) Outputs(count int) ([]pwmseq.Output, error) {
	ret := make([]pwmseq.Output, count)
	for i := range ret {
		ret[i] = &logOutput{channel: i, context: c}
	}
	return ret, nil
}

func (c *LogContext) Close() error {
	c.printf("closed")
	return nil
}

func (c *LogContext) printf(format string, v ...any) {
	if c.Quiet || c.Logger == nil {
		return
	}
	c.Logger.Printf(format, v...)
}

func (o *logOutput) SetEnabled(enabled bool) error {
	o.context.printf("pwm %v: enable %v", o.channel, enabled)
	return nil
}

func (o *logOutput) SetPeriod(period uint32) error {
	o.context.printf("pwm %v: period %v", o.channel, period)
	return nil
}

func (o *logOutput) SetDutyCycle(duty uint32) error {
	o.context.printf("pwm %v: duty_cycle %v", o.channel, duty)
	return nil
}
