// SPDX-License-Identifier: GPL-3.0-only

package light

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/shini4i/lights-daemon/internal/brightness"
	"github.com/shini4i/lights-daemon/internal/metrics"
	"github.com/shini4i/lights-daemon/internal/sysfs"
)

const (
	// DefaultLUTFlags is the lookup-table mode written with every blink program.
	DefaultLUTFlags uint32 = 95

	// writeErrorLogBurst is how many write failures are logged back to back.
	writeErrorLogBurst = 5
)

// channelMasks selects the color component that drives each LED element.
var channelMasks = map[sysfs.Channel]uint32{
	sysfs.Red:   brightness.RedMask,
	sysfs.Green: brightness.GreenMask,
	sysfs.Blue:  brightness.BlueMask,
}

// ActiveHandler is called with the winning notification entry after every
// notification update or reapply. It runs with the controller locked and
// must not call back into the Controller.
type ActiveHandler func(active Entry)

// Controller routes light requests to the backlight or the notification LED
// and writes the resulting hardware program.
//
// All requests are serialized by a single mutex, so an arbitration scan and
// the writes it produces are never interleaved with another request.
// Hardware write failures are logged and counted but never returned.
type Controller struct {
	mu            sync.Mutex
	leds          sysfs.BrightnessStore
	blink         sysfs.BlinkStore
	limits        ChannelLimits
	arbiter       *Arbiter
	ramp          brightness.Ramp
	rampStepMs    uint32
	lutFlags      uint32
	onActive      ActiveHandler
	backlight     bool
	lastBacklight *State
	errLimiter    *rate.Limiter
}

// Option is a functional option for configuring a Controller.
type Option func(*Controller)

// WithArbiter replaces the default attention/notifications/battery arbiter.
func WithArbiter(a *Arbiter) Option {
	return func(c *Controller) {
		c.arbiter = a
	}
}

// WithRamp sets the blink ramp shape.
func WithRamp(r brightness.Ramp) Option {
	return func(c *Controller) {
		c.ramp = r
	}
}

// WithRampStep sets the default ramp step duration in milliseconds.
func WithRampStep(ms uint32) Option {
	return func(c *Controller) {
		c.rampStepMs = ms
	}
}

// WithLUTFlags sets the lookup-table flags written with blink programs.
func WithLUTFlags(flags uint32) Option {
	return func(c *Controller) {
		c.lutFlags = flags
	}
}

// WithBacklight enables or disables the screen backlight light. It is enabled by default.
func WithBacklight(enabled bool) Option {
	return func(c *Controller) {
		c.backlight = enabled
	}
}

// WithActiveHandler sets the callback for arbitration results.
func WithActiveHandler(h ActiveHandler) Option {
	return func(c *Controller) {
		c.onActive = h
	}
}

// NewController creates a controller writing to the given stores.
func NewController(leds sysfs.BrightnessStore, blink sysfs.BlinkStore, limits ChannelLimits, opts ...Option) *Controller {
	c := &Controller{
		leds:       leds,
		blink:      blink,
		limits:     limits,
		ramp:       brightness.DefaultRamp,
		rampStepMs: brightness.DefaultRampStepMs,
		lutFlags:   DefaultLUTFlags,
		backlight:  true,
		errLimiter: rate.NewLimiter(rate.Every(time.Second), writeErrorLogBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.arbiter == nil {
		a, err := NewArbiter(DefaultPriority, TypeBattery)
		if err != nil {
			panic(err)
		}
		c.arbiter = a
	}
	return c
}

// SupportedTypes returns the backlight, when enabled, followed by the
// notification types in priority order.
func (c *Controller) SupportedTypes() []Type {
	if !c.backlight {
		return c.arbiter.Types()
	}
	return append([]Type{TypeBacklight}, c.arbiter.Types()...)
}

// SetLight applies state to the light t. It returns ErrUnsupported, and
// touches no hardware, when t is not configured.
func (c *Controller) SetLight(t Type, state State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t == TypeBacklight && !c.backlight {
		metrics.ObserveRequest(t.String(), StatusLightNotSupported.String())
		log.Debug().Msg("Backlight requested but disabled")
		return fmt.Errorf("%s: %w", t, ErrUnsupported)
	}

	if t == TypeBacklight {
		c.applyBacklight(state)
		c.lastBacklight = &state
		metrics.ObserveRequest(t.String(), StatusSuccess.String())
		return nil
	}

	active, err := c.arbiter.Update(t, state)
	if err != nil {
		metrics.ObserveRequest(t.String(), StatusLightNotSupported.String())
		log.Debug().Str("type", t.String()).Msg("Unsupported light type requested")
		return err
	}

	log.Debug().
		Str("type", t.String()).
		Str("active", active.Type.String()).
		Str("color", fmt.Sprintf("%08x", active.State.Color)).
		Msg("Notification arbitrated")

	c.applyNotification(active.State)
	c.reportActive(active)
	metrics.ObserveRequest(t.String(), StatusSuccess.String())
	return nil
}

// Reapply writes the last backlight state and the winning notification
// state again. Used after a class device reappears with reset attributes.
func (c *Controller) Reapply() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastBacklight != nil {
		c.applyBacklight(*c.lastBacklight)
	}

	active := c.arbiter.Active()
	c.applyNotification(active.State)
	c.reportActive(active)

	log.Info().Str("active", active.Type.String()).Msg("Light state reapplied")
}

// Active returns the notification entry currently driving the LED.
func (c *Controller) Active() Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arbiter.Active()
}

func (c *Controller) applyBacklight(state State) {
	level := brightness.ColorToBrightness(state.Color, c.limits.Screen)
	c.check(sysfs.Screen, sysfs.AttrBrightness, c.leds.WriteBrightness(sysfs.Screen, level))
}

// applyNotification programs all three LED elements from one state.
// Blinking is always disabled first so a previous pattern cannot linger.
func (c *Controller) applyNotification(state State) {
	levels := make(map[sysfs.Channel]uint32, len(sysfs.LEDChannels))
	for _, ch := range sysfs.LEDChannels {
		levels[ch] = brightness.ColorToBrightness(brightness.Isolate(state.Color, channelMasks[ch]), c.limits.Max(ch))
	}

	for _, ch := range sysfs.LEDChannels {
		c.check(ch, sysfs.AttrBlink, c.blink.WriteBlinkEnable(ch, false))
	}

	if !state.Flashing() {
		for _, ch := range sysfs.LEDChannels {
			c.check(ch, sysfs.AttrBrightness, c.leds.WriteBrightness(ch, levels[ch]))
		}
		return
	}

	timing := brightness.PlanTiming(state.FlashOnMs, state.FlashOffMs, c.ramp, c.rampStepMs)
	log.Debug().
		Str("color", fmt.Sprintf("%08x", state.Color)).
		Int32("onMs", state.FlashOnMs).
		Int32("offMs", state.FlashOffMs).
		Uint32("stepMs", timing.StepMs).
		Uint32("pauseHighMs", timing.PauseHighMs).
		Msg("Programming blink pattern")

	for _, ch := range sysfs.LEDChannels {
		c.check(ch, sysfs.AttrLUTFlags, c.blink.WriteLUTFlags(ch, c.lutFlags))
		c.check(ch, sysfs.AttrStartIndex, c.blink.WriteStartIndex(ch, 0))
		c.check(ch, sysfs.AttrDutyPcts, c.blink.WriteDutyTable(ch, brightness.ScaledDutyTable(levels[ch], c.ramp)))
		c.check(ch, sysfs.AttrPauseLow, c.blink.WritePauseLow(ch, timing.PauseLowMs))
		c.check(ch, sysfs.AttrPauseHigh, c.blink.WritePauseHigh(ch, timing.PauseHighMs))
		c.check(ch, sysfs.AttrRampStepMs, c.blink.WriteRampStep(ch, timing.StepMs))
		c.check(ch, sysfs.AttrBlink, c.blink.WriteBlinkEnable(ch, true))
	}
}

func (c *Controller) reportActive(active Entry) {
	types := c.arbiter.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	metrics.SetActiveNotification(active.Type.String(), names)

	if c.onActive != nil {
		c.onActive(active)
	}
}

// check records a failed write. Writes are best effort and never retried.
func (c *Controller) check(ch sysfs.Channel, attr string, err error) {
	if err == nil {
		return
	}

	metrics.ObserveWriteError(ch.String(), attr)
	if c.errLimiter.Allow() {
		log.Warn().
			Err(err).
			Str("channel", ch.String()).
			Str("attribute", attr).
			Msg("Failed to write light attribute")
	}
}
