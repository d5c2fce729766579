package light_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shini4i/lights-daemon/internal/light"
	"github.com/shini4i/lights-daemon/internal/sysfs"
	"github.com/shini4i/lights-daemon/internal/sysfs/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReadChannelLimits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockBrightnessStore(ctrl)
	store.EXPECT().ReadMaxBrightness(sysfs.Screen).Return(uint32(0), errors.New("no such file"))
	store.EXPECT().ReadMaxBrightness(sysfs.Red).Return(uint32(511), nil)
	store.EXPECT().ReadMaxBrightness(sysfs.Blue).Return(uint32(0), nil)
	store.EXPECT().ReadMaxBrightness(sysfs.Green).Return(uint32(127), nil)

	limits := light.ReadChannelLimits(store)
	assert.Equal(t, light.ChannelLimits{Screen: 2047, Red: 511, Green: 127, Blue: 255}, limits)
}

// captureLog redirects the global logger into a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestReadChannelLimits_LogMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	buf := captureLog(t)

	store := mocks.NewMockBrightnessStore(ctrl)
	store.EXPECT().ReadMaxBrightness(sysfs.Screen).Return(uint32(0), errors.New("no such file"))
	store.EXPECT().ReadMaxBrightness(sysfs.Red).Return(uint32(255), nil)
	store.EXPECT().ReadMaxBrightness(sysfs.Blue).Return(uint32(0), nil)
	store.EXPECT().ReadMaxBrightness(sysfs.Green).Return(uint32(255), nil)

	light.ReadChannelLimits(store)

	var unreadable, zero, summary []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case strings.Contains(line, "Failed to read max brightness"):
			unreadable = append(unreadable, line)
		case strings.Contains(line, "reported zero max brightness"):
			zero = append(zero, line)
		case strings.Contains(line, `"message":"Channel limits"`):
			summary = append(summary, line)
		}
	}

	require.Len(t, unreadable, 1)
	assert.Contains(t, unreadable[0], `"channel":"screen"`)
	assert.Contains(t, unreadable[0], "no such file")

	require.Len(t, zero, 1)
	assert.Contains(t, zero[0], `"channel":"blue"`)
	assert.NotContains(t, zero[0], `"error"`)

	require.Len(t, summary, 1, "limits are summarized once")
	assert.Contains(t, summary[0], `"level":"info"`)
}

func TestChannelLimits_Max(t *testing.T) {
	limits := light.ChannelLimits{Screen: 1, Red: 2, Green: 3, Blue: 4}
	assert.Equal(t, uint32(1), limits.Max(sysfs.Screen))
	assert.Equal(t, uint32(2), limits.Max(sysfs.Red))
	assert.Equal(t, uint32(3), limits.Max(sysfs.Green))
	assert.Equal(t, uint32(4), limits.Max(sysfs.Blue))
	assert.Equal(t, uint32(0), limits.Max(sysfs.Channel(9)))
}

func TestDefaultChannelLimits(t *testing.T) {
	assert.Equal(t, light.ChannelLimits{Screen: 2047, Red: 255, Green: 255, Blue: 255}, light.DefaultChannelLimits())
}
