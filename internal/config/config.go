// SPDX-License-Identifier: GPL-3.0-only

// Package config loads the lights daemon configuration.
//
// Values are layered: built-in defaults, then the TOML file, then LIGHTS_*
// environment variables. Command line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/pelletier/go-toml/v2"

	"github.com/shini4i/lights-daemon/internal/brightness"
	"github.com/shini4i/lights-daemon/internal/light"
	"github.com/shini4i/lights-daemon/internal/sysfs"
)

// DefaultPath is where the daemon looks for its config file.
const DefaultPath = "/etc/lights-daemon.toml"

// Bus names accepted by the Bus option.
const (
	BusSystem  = "system"
	BusSession = "session"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config describes the hardware channels and the notification policy.
type Config struct {
	Bus           string   `toml:"bus" env:"LIGHTS_BUS"`
	BacklightDir  string   `toml:"backlight_dir" env:"LIGHTS_BACKLIGHT_DIR"`
	LEDDir        string   `toml:"led_dir" env:"LIGHTS_LED_DIR"`
	RedLED        string   `toml:"red_led" env:"LIGHTS_RED_LED"`
	GreenLED      string   `toml:"green_led" env:"LIGHTS_GREEN_LED"`
	BlueLED       string   `toml:"blue_led" env:"LIGHTS_BLUE_LED"`
	RampStepMs    int      `toml:"ramp_step_ms" env:"LIGHTS_RAMP_STEP_MS"`
	RampShape     []int    `toml:"ramp_shape"`
	LUTFlags      int      `toml:"lut_flags" env:"LIGHTS_LUT_FLAGS"`
	Priority      []string `toml:"priority"`
	Fallback      string   `toml:"fallback" env:"LIGHTS_FALLBACK"`
	MetricsListen string   `toml:"metrics_listen" env:"LIGHTS_METRICS_LISTEN"`
	Backlight     bool     `toml:"backlight" env:"LIGHTS_BACKLIGHT"`
	Hotplug       bool     `toml:"hotplug" env:"LIGHTS_HOTPLUG"`
}

// Default returns the configuration of the reference device.
func Default() Config {
	ramp := make([]int, len(brightness.DefaultRamp))
	for i, pct := range brightness.DefaultRamp {
		ramp[i] = int(pct)
	}

	priority := make([]string, len(light.DefaultPriority))
	for i, t := range light.DefaultPriority {
		priority[i] = t.String()
	}

	return Config{
		Bus:          BusSystem,
		BacklightDir: "/sys/class/backlight/panel0-backlight",
		LEDDir:       "/sys/class/leds",
		RedLED:       "red",
		GreenLED:     "green",
		BlueLED:      "blue",
		RampStepMs:   int(brightness.DefaultRampStepMs),
		RampShape:    ramp,
		LUTFlags:     int(light.DefaultLUTFlags),
		Priority:     priority,
		Fallback:     light.TypeBattery.String(),
		Backlight:    true,
		Hotplug:      true,
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is only an error when required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a usable device.
func (c Config) Validate() error {
	if c.Bus != BusSystem && c.Bus != BusSession {
		return fmt.Errorf("%w: bus must be %q or %q, got %q", ErrInvalid, BusSystem, BusSession, c.Bus)
	}
	if c.BacklightDir == "" || c.LEDDir == "" {
		return fmt.Errorf("%w: backlight_dir and led_dir are required", ErrInvalid)
	}
	if c.RedLED == "" || c.GreenLED == "" || c.BlueLED == "" {
		return fmt.Errorf("%w: red_led, green_led and blue_led are required", ErrInvalid)
	}
	if c.RampStepMs <= 0 {
		return fmt.Errorf("%w: ramp_step_ms must be positive", ErrInvalid)
	}
	if c.LUTFlags < 0 {
		return fmt.Errorf("%w: lut_flags must not be negative", ErrInvalid)
	}
	if _, err := c.Ramp(); err != nil {
		return err
	}
	if _, err := c.Arbiter(); err != nil {
		return err
	}
	return nil
}

// Ramp converts RampShape into a brightness.Ramp.
func (c Config) Ramp() (brightness.Ramp, error) {
	ramp := make(brightness.Ramp, len(c.RampShape))
	for i, pct := range c.RampShape {
		if pct < 0 || pct > int(brightness.MaxDutyPercent) {
			return nil, fmt.Errorf("%w: ramp_shape[%d]=%d is outside 0-100", ErrInvalid, i, pct)
		}
		ramp[i] = uint32(pct)
	}
	if !ramp.Valid() {
		return nil, fmt.Errorf("%w: ramp_shape must not be empty", ErrInvalid)
	}
	return ramp, nil
}

// Arbiter builds the notification arbiter from Priority and Fallback.
func (c Config) Arbiter() (*light.Arbiter, error) {
	priority := make([]light.Type, len(c.Priority))
	for i, name := range c.Priority {
		t, err := light.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: priority: %w", ErrInvalid, err)
		}
		priority[i] = t
	}

	fallback, err := light.ParseType(c.Fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback: %w", ErrInvalid, err)
	}

	a, err := light.NewArbiter(priority, fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return a, nil
}

// ChannelDirs maps every channel to its class device directory.
func (c Config) ChannelDirs() map[sysfs.Channel]string {
	return map[sysfs.Channel]string{
		sysfs.Screen: c.BacklightDir,
		sysfs.Red:    filepath.Join(c.LEDDir, c.RedLED),
		sysfs.Green:  filepath.Join(c.LEDDir, c.GreenLED),
		sysfs.Blue:   filepath.Join(c.LEDDir, c.BlueLED),
	}
}

// DeviceNames returns the class device names watched for hotplug events.
func (c Config) DeviceNames() []string {
	names := []string{c.RedLED, c.GreenLED, c.BlueLED}
	if c.Backlight {
		names = append([]string{filepath.Base(c.BacklightDir)}, names...)
	}
	return names
}

// ControllerOptions translates the configuration into light.Controller options.
func (c Config) ControllerOptions() ([]light.Option, error) {
	ramp, err := c.Ramp()
	if err != nil {
		return nil, err
	}
	arbiter, err := c.Arbiter()
	if err != nil {
		return nil, err
	}

	return []light.Option{
		light.WithArbiter(arbiter),
		light.WithRamp(ramp),
		light.WithRampStep(uint32(c.RampStepMs)), // #nosec G115 -- validated positive
		light.WithLUTFlags(uint32(c.LUTFlags)),   // #nosec G115 -- validated non-negative
		light.WithBacklight(c.Backlight),
	}, nil
}
