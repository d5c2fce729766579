// SPDX-License-Identifier: GPL-3.0-only

// Package brightness converts ARGB light colors into hardware brightness
// levels and blink programs for sysfs LED and backlight channels.
package brightness

const (
	// DefaultMaxLEDBrightness is used when an LED channel's max_brightness cannot be read.
	DefaultMaxLEDBrightness uint32 = 255

	// DefaultMaxScreenBrightness is used when the backlight's max_brightness cannot be read.
	DefaultMaxScreenBrightness uint32 = 2047

	// fullScale is the largest value of a single color component.
	fullScale uint32 = 0xFF
)

// Component masks for the bytes of an AARRGGBB color.
const (
	AlphaMask uint32 = 0xFF000000
	RedMask   uint32 = 0x00FF0000
	GreenMask uint32 = 0x0000FF00
	BlueMask  uint32 = 0x000000FF
	RGBMask   uint32 = RedMask | GreenMask | BlueMask
)

// Luma extracts a brightness value (0-255) from an AARRGGBB color.
// When alpha is not fully opaque the color components are scaled by it
// first, truncating like the LED driver's fixed-point math does.
func Luma(color uint32) uint32 {
	alpha := (color >> 24) & 0xFF
	red := (color >> 16) & 0xFF
	green := (color >> 8) & 0xFF
	blue := color & 0xFF

	if alpha != fullScale {
		red = red * alpha / fullScale
		green = green * alpha / fullScale
		blue = blue * alpha / fullScale
	}

	return (77*red + 150*green + 29*blue) >> 8
}

// ScaleToMax maps a 0-255 luma onto a channel whose maximum brightness is maxBrightness.
func ScaleToMax(luma, maxBrightness uint32) uint32 {
	return uint32(uint64(luma) * uint64(maxBrightness) / uint64(fullScale))
}

// ColorToBrightness is Luma followed by ScaleToMax.
func ColorToBrightness(color, maxBrightness uint32) uint32 {
	return ScaleToMax(Luma(color), maxBrightness)
}

// Isolate keeps the alpha byte and the components selected by mask,
// zeroing every other component.
func Isolate(color, mask uint32) uint32 {
	return color&AlphaMask | color&mask&RGBMask
}

// IsLit reports whether any of the RGB components is non-zero. Alpha is ignored.
func IsLit(color uint32) bool {
	return color&RGBMask != 0
}

// ScaledDutyTable scales every duty percentage of ramp by fraction/255.
// Fractions above 255 are treated as 255 so the result stays within 0-100.
func ScaledDutyTable(fraction uint32, ramp Ramp) []uint32 {
	if fraction > fullScale {
		fraction = fullScale
	}

	duty := make([]uint32, len(ramp))
	for i, pct := range ramp {
		duty[i] = pct * fraction / fullScale
	}
	return duty
}
