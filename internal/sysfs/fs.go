// SPDX-License-Identifier: GPL-3.0-only

package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Attribute file names inside a LED or backlight class directory.
const (
	AttrBrightness    = "brightness"
	AttrMaxBrightness = "max_brightness"
	AttrBlink         = "blink"
	AttrLUTFlags      = "lut_flags"
	AttrStartIndex    = "start_idx"
	AttrDutyPcts      = "duty_pcts"
	AttrPauseHigh     = "pause_hi"
	AttrPauseLow      = "pause_lo"
	AttrRampStepMs    = "ramp_step_ms"
)

// FS implements BrightnessStore and BlinkStore on top of sysfs attribute files.
// Each channel maps to its class device directory, e.g. /sys/class/leds/red.
type FS struct {
	dirs map[Channel]string
}

// Verify FS implements both store interfaces.
var (
	_ BrightnessStore = (*FS)(nil)
	_ BlinkStore      = (*FS)(nil)
)

// NewFS creates a store for the given channel directories.
func NewFS(dirs map[Channel]string) *FS {
	copied := make(map[Channel]string, len(dirs))
	for ch, dir := range dirs {
		copied[ch] = dir
	}
	return &FS{dirs: copied}
}

// Dir returns the class device directory of a channel.
func (f *FS) Dir(ch Channel) (string, bool) {
	dir, ok := f.dirs[ch]
	return dir, ok
}

// ReadMaxBrightness reads max_brightness of the channel.
func (f *FS) ReadMaxBrightness(ch Channel) (uint32, error) {
	path, err := f.path(ch, AttrMaxBrightness)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is built from configured sysfs directories
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	value, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return uint32(value), nil
}

// WriteBrightness writes brightness of the channel.
func (f *FS) WriteBrightness(ch Channel, value uint32) error {
	return f.writeUint(ch, AttrBrightness, value)
}

// WriteBlinkEnable writes 1 or 0 to the blink attribute.
func (f *FS) WriteBlinkEnable(ch Channel, enabled bool) error {
	value := uint32(0)
	if enabled {
		value = 1
	}
	return f.writeBlinkAttr(ch, AttrBlink, strconv.FormatUint(uint64(value), 10))
}

// WriteLUTFlags writes lut_flags.
func (f *FS) WriteLUTFlags(ch Channel, flags uint32) error {
	return f.writeBlinkAttr(ch, AttrLUTFlags, strconv.FormatUint(uint64(flags), 10))
}

// WriteStartIndex writes start_idx.
func (f *FS) WriteStartIndex(ch Channel, index uint32) error {
	return f.writeBlinkAttr(ch, AttrStartIndex, strconv.FormatUint(uint64(index), 10))
}

// WriteDutyTable writes duty_pcts as a comma-separated list.
func (f *FS) WriteDutyTable(ch Channel, duty []uint32) error {
	return f.writeBlinkAttr(ch, AttrDutyPcts, FormatDutyTable(duty))
}

// WritePauseHigh writes pause_hi.
func (f *FS) WritePauseHigh(ch Channel, ms uint32) error {
	return f.writeBlinkAttr(ch, AttrPauseHigh, strconv.FormatUint(uint64(ms), 10))
}

// WritePauseLow writes pause_lo.
func (f *FS) WritePauseLow(ch Channel, ms uint32) error {
	return f.writeBlinkAttr(ch, AttrPauseLow, strconv.FormatUint(uint64(ms), 10))
}

// WriteRampStep writes ramp_step_ms.
func (f *FS) WriteRampStep(ch Channel, ms uint32) error {
	return f.writeBlinkAttr(ch, AttrRampStepMs, strconv.FormatUint(uint64(ms), 10))
}

// FormatDutyTable renders duty percentages the way the LED driver parses them: "0,12,25".
func FormatDutyTable(duty []uint32) string {
	parts := make([]string, len(duty))
	for i, v := range duty {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ",")
}

func (f *FS) path(ch Channel, attr string) (string, error) {
	dir, ok := f.dirs[ch]
	if !ok {
		return "", fmt.Errorf("%s: %w", ch, ErrUnknownChannel)
	}
	return filepath.Join(dir, attr), nil
}

func (f *FS) writeUint(ch Channel, attr string, value uint32) error {
	return f.write(ch, attr, strconv.FormatUint(uint64(value), 10))
}

func (f *FS) writeBlinkAttr(ch Channel, attr, content string) error {
	if !ch.IsLED() {
		return fmt.Errorf("%s: %w", ch, ErrNoBlinkSupport)
	}
	return f.write(ch, attr, content)
}

// write replaces the attribute's content. sysfs attributes already exist,
// so the file is opened without O_CREATE.
func (f *FS) write(ch Channel, attr, content string) error {
	path, err := f.path(ch, attr)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0) // #nosec G304 -- path is built from configured sysfs directories
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
