package pwmseq

import "fmt"

type (
	// Output is a single PWM channel. Every call is synchronous: it either
	// completes or returns an error, in which case the channel should be
	// considered lost.
	Output interface {
		SetEnabled(enabled bool) error
		SetPeriod(period uint32) error
		SetDutyCycle(duty uint32) error
	}

	// OutputContext acquires the outputs the engine renders to. Close releases
	// them, leaving every channel silent.
	OutputContext interface {
		Outputs(count int) ([]Output, error)
		Close() error
	}

	// SinkError is returned when writing to or acquiring an Output fails.
	// Continuing to play with a disconnected channel makes no sense, so
	// callers usually stop on it; use errors.As to tell it apart from other
	// errors.
	SinkError struct {
		Channel int
		Op      string
		Err     error
	}
)

func (e *SinkError) Error() string {
	return fmt.Sprintf("pwm channel %v: %v failed: %v", e.Channel, e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
