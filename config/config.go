// Package config holds the device and engine settings of the player.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsariola/pwmseq/vm"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Devices are the sysfs PWM directories, in channel order.
	Devices []string
	// Tick is the length of one engine tick.
	Tick time.Duration
	// Volume scales the tone of a channel into its duty cycle.
	Volume float32
	// PolyCycleThreshold is the number of ticks each pitch of a chord is
	// held.
	PolyCycleThreshold int
	// Warmup is waited after acquiring the devices, before the first tick.
	Warmup time.Duration
	// Setup is a shell command run before acquiring the devices, e.g. to
	// configure the pin muxing.
	Setup string `yaml:",omitempty"`
}

//go:embed defaults.yml
var defaultsYaml []byte

// Default returns the configuration of a BeagleBone with four PWM channels.
func Default() Config {
	var c Config
	if err := decode(defaultsYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// DefaultPath returns the per-user config file, or "" if the platform has no
// config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "pwmseq", "config.yml")
}

// Parse overlays the YAML data on the defaults. Unknown keys are an error.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := decode(data, &c); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if len(c.Devices) == 0 {
		return errors.New("no pwm devices configured")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", c.Tick)
	}
	if c.Volume < 0 {
		return fmt.Errorf("volume must not be negative, got %v", c.Volume)
	}
	if c.PolyCycleThreshold < 0 {
		return fmt.Errorf("polycyclethreshold must not be negative, got %v", c.PolyCycleThreshold)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %v", c.Warmup)
	}
	return nil
}

// EngineOptions returns the engine settings of the config.
func (c Config) EngineOptions(diagnostics vm.Diagnostics) vm.EngineOptions {
	return vm.EngineOptions{
		Volume:             c.Volume,
		PolyCycleThreshold: c.PolyCycleThreshold,
		Diagnostics:        diagnostics,
	}
}

func decode(data []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}
