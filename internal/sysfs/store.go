// Package sysfs provides the hardware stores behind the lights service:
// brightness and blink-pattern attributes of Linux LED and backlight
// class devices.
package sysfs

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

import "errors"

// Channel identifies one physical light output.
type Channel int

const (
	// Screen is the display backlight.
	Screen Channel = iota
	// Red is the red element of the notification LED.
	Red
	// Green is the green element of the notification LED.
	Green
	// Blue is the blue element of the notification LED.
	Blue
)

// LEDChannels lists the notification LED elements in the order they are programmed.
var LEDChannels = []Channel{Red, Blue, Green}

// String returns the lowercase channel name.
func (c Channel) String() string {
	switch c {
	case Screen:
		return "screen"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// IsLED reports whether the channel belongs to the RGB notification LED.
func (c Channel) IsLED() bool {
	return c == Red || c == Green || c == Blue
}

// ErrUnknownChannel is returned for a channel that has no configured device.
var ErrUnknownChannel = errors.New("channel not configured")

// ErrNoBlinkSupport is returned when a blink attribute is written to a non-LED channel.
var ErrNoBlinkSupport = errors.New("channel does not support blinking")

// BrightnessStore reads and writes the brightness of a channel.
// This interface allows for mocking in tests.
type BrightnessStore interface {
	// ReadMaxBrightness returns the hardware maximum brightness of the channel.
	ReadMaxBrightness(ch Channel) (uint32, error)

	// WriteBrightness sets the static brightness of the channel.
	WriteBrightness(ch Channel, value uint32) error
}

// BlinkStore programs the hardware blink engine of an LED channel.
// This interface allows for mocking in tests.
type BlinkStore interface {
	// WriteBlinkEnable starts or stops the blink pattern.
	WriteBlinkEnable(ch Channel, enabled bool) error

	// WriteLUTFlags sets the lookup-table control flags.
	WriteLUTFlags(ch Channel, flags uint32) error

	// WriteStartIndex sets the first lookup-table index of the pattern.
	WriteStartIndex(ch Channel, index uint32) error

	// WriteDutyTable sets the duty percentages (0-100) of each ramp step.
	WriteDutyTable(ch Channel, duty []uint32) error

	// WritePauseHigh sets how long the pattern holds at its peak, in ms.
	WritePauseHigh(ch Channel, ms uint32) error

	// WritePauseLow sets how long the pattern holds off, in ms.
	WritePauseLow(ch Channel, ms uint32) error

	// WriteRampStep sets the duration of each ramp step, in ms.
	WriteRampStep(ch Channel, ms uint32) error
}
