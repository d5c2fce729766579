// SPDX-License-Identifier: GPL-3.0-only

// Package light maps logical light requests onto the screen backlight and
// the shared RGB notification LED.
package light

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned when a light type is not configured on this device.
var ErrUnsupported = errors.New("light not supported")

// ErrUnknownType is returned when a light type name cannot be parsed.
var ErrUnknownType = errors.New("unknown light type")

// Type identifies a logical light. Values match the Android lights HAL.
type Type uint32

const (
	TypeBacklight Type = iota
	TypeKeyboard
	TypeButtons
	TypeBattery
	TypeNotifications
	TypeAttention
	TypeBluetooth
	TypeWifi
)

var typeNames = map[Type]string{
	TypeBacklight:     "backlight",
	TypeKeyboard:      "keyboard",
	TypeButtons:       "buttons",
	TypeBattery:       "battery",
	TypeNotifications: "notifications",
	TypeAttention:     "attention",
	TypeBluetooth:     "bluetooth",
	TypeWifi:          "wifi",
}

// String returns the configuration name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

// ParseType resolves a configuration name such as "battery" to a Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownType)
}

// FlashMode selects how a light blinks.
type FlashMode uint32

const (
	// FlashNone keeps the light at a steady brightness.
	FlashNone FlashMode = iota
	// FlashTimed blinks using FlashOnMs and FlashOffMs.
	FlashTimed
	// FlashHardware leaves blinking to the hardware; treated as steady here.
	FlashHardware
)

// State is the requested appearance of one logical light.
// A new State fully replaces the previous one for its type.
type State struct {
	// Color is AARRGGBB.
	Color      uint32
	FlashMode  FlashMode
	FlashOnMs  int32
	FlashOffMs int32
}

// Flashing reports whether the state asks for a timed blink program.
func (s State) Flashing() bool {
	return s.FlashMode == FlashTimed && s.FlashOnMs > 0 && s.FlashOffMs > 0
}

// Status is the result code returned to callers of SetLight.
type Status uint32

const (
	StatusSuccess           Status = 0
	StatusLightNotSupported Status = 1
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusLightNotSupported:
		return "light_not_supported"
	default:
		return fmt.Sprintf("status(%d)", uint32(s))
	}
}

// StatusOf converts a SetLight error into a Status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	return StatusLightNotSupported
}
