package light

import (
	"github.com/rs/zerolog/log"

	"github.com/shini4i/lights-daemon/internal/brightness"
	"github.com/shini4i/lights-daemon/internal/metrics"
	"github.com/shini4i/lights-daemon/internal/sysfs"
)

// ChannelLimits holds the maximum brightness of each channel.
// It is read once at startup and never changes afterwards.
type ChannelLimits struct {
	Screen uint32
	Red    uint32
	Green  uint32
	Blue   uint32
}

// DefaultChannelLimits returns the limits used when nothing can be read.
func DefaultChannelLimits() ChannelLimits {
	return ChannelLimits{
		Screen: brightness.DefaultMaxScreenBrightness,
		Red:    brightness.DefaultMaxLEDBrightness,
		Green:  brightness.DefaultMaxLEDBrightness,
		Blue:   brightness.DefaultMaxLEDBrightness,
	}
}

// Max returns the limit of ch.
func (l ChannelLimits) Max(ch sysfs.Channel) uint32 {
	switch ch {
	case sysfs.Screen:
		return l.Screen
	case sysfs.Red:
		return l.Red
	case sysfs.Green:
		return l.Green
	case sysfs.Blue:
		return l.Blue
	default:
		return 0
	}
}

// ReadChannelLimits reads max_brightness of every channel. A channel that
// cannot be read, or reports zero, keeps its default.
func ReadChannelLimits(store sysfs.BrightnessStore) ChannelLimits {
	limits := DefaultChannelLimits()

	for _, target := range []struct {
		ch    sysfs.Channel
		value *uint32
	}{
		{sysfs.Screen, &limits.Screen},
		{sysfs.Red, &limits.Red},
		{sysfs.Blue, &limits.Blue},
		{sysfs.Green, &limits.Green},
	} {
		value, err := store.ReadMaxBrightness(target.ch)
		switch {
		case err != nil:
			metrics.ObserveReadError(target.ch.String())
			log.Error().
				Err(err).
				Str("channel", target.ch.String()).
				Uint32("fallback", *target.value).
				Msg("Failed to read max brightness, using default")
		case value == 0:
			metrics.ObserveReadError(target.ch.String())
			log.Error().
				Str("channel", target.ch.String()).
				Uint32("fallback", *target.value).
				Msg("Channel reported zero max brightness, using default")
		default:
			*target.value = value
		}
	}

	log.Info().
		Uint32("screen", limits.Screen).
		Uint32("red", limits.Red).
		Uint32("green", limits.Green).
		Uint32("blue", limits.Blue).
		Msg("Channel limits")
	return limits
}
