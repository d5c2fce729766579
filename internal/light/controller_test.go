// SPDX-License-Identifier: GPL-3.0-only

package light_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shini4i/lights-daemon/internal/brightness"
	"github.com/shini4i/lights-daemon/internal/light"
	"github.com/shini4i/lights-daemon/internal/sysfs"
	"github.com/shini4i/lights-daemon/internal/sysfs/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingStore implements both stores and records every write as "channel/attr=value".
type recordingStore struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (r *recordingStore) record(ch sysfs.Channel, attr string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, fmt.Sprintf("%s/%s=%v", ch, attr, value))
	return r.err
}

func (r *recordingStore) ReadMaxBrightness(sysfs.Channel) (uint32, error) { return 0, r.err }
func (r *recordingStore) WriteBrightness(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrBrightness, v)
}
func (r *recordingStore) WriteBlinkEnable(ch sysfs.Channel, on bool) error {
	return r.record(ch, sysfs.AttrBlink, on)
}
func (r *recordingStore) WriteLUTFlags(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrLUTFlags, v)
}
func (r *recordingStore) WriteStartIndex(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrStartIndex, v)
}
func (r *recordingStore) WriteDutyTable(ch sysfs.Channel, d []uint32) error {
	return r.record(ch, sysfs.AttrDutyPcts, sysfs.FormatDutyTable(d))
}
func (r *recordingStore) WritePauseHigh(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrPauseHigh, v)
}
func (r *recordingStore) WritePauseLow(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrPauseLow, v)
}
func (r *recordingStore) WriteRampStep(ch sysfs.Channel, v uint32) error {
	return r.record(ch, sysfs.AttrRampStepMs, v)
}

func (r *recordingStore) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.writes
	r.writes = nil
	return w
}

func newRecordingController(opts ...light.Option) (*light.Controller, *recordingStore) {
	store := &recordingStore{}
	return light.NewController(store, store, light.DefaultChannelLimits(), opts...), store
}

func TestController_SupportedTypes(t *testing.T) {
	ctrl, _ := newRecordingController()
	assert.Equal(t, []light.Type{
		light.TypeBacklight,
		light.TypeAttention,
		light.TypeNotifications,
		light.TypeBattery,
	}, ctrl.SupportedTypes())
}

func TestController_SupportedTypes_CustomArbiter(t *testing.T) {
	a, err := light.NewArbiter([]light.Type{light.TypeAttention, light.TypeBattery}, light.TypeBattery)
	require.NoError(t, err)

	ctrl, _ := newRecordingController(light.WithArbiter(a))
	assert.Equal(t, []light.Type{light.TypeBacklight, light.TypeAttention, light.TypeBattery}, ctrl.SupportedTypes())
}

func TestController_BacklightDisabled(t *testing.T) {
	gm := gomock.NewController(t)
	defer gm.Finish()

	leds := mocks.NewMockBrightnessStore(gm)
	blink := mocks.NewMockBlinkStore(gm)
	ctrl := light.NewController(leds, blink, light.DefaultChannelLimits(), light.WithBacklight(false))

	assert.Equal(t, []light.Type{
		light.TypeAttention,
		light.TypeNotifications,
		light.TypeBattery,
	}, ctrl.SupportedTypes())

	// No store expectations: a rejected backlight request writes nothing.
	err := ctrl.SetLight(light.TypeBacklight, light.State{Color: 0xFFFFFFFF})
	require.ErrorIs(t, err, light.ErrUnsupported)
	assert.Equal(t, light.StatusLightNotSupported, light.StatusOf(err))
}

func TestController_BacklightDisabled_ReapplySkipsScreen(t *testing.T) {
	ctrl, store := newRecordingController(light.WithBacklight(false))

	require.Error(t, ctrl.SetLight(light.TypeBacklight, light.State{Color: 0xFFFFFFFF}))
	assert.Empty(t, store.take())

	ctrl.Reapply()
	for _, w := range store.take() {
		assert.NotContains(t, w, "screen/")
	}
}

func TestController_SetLight_UnsupportedWritesNothing(t *testing.T) {
	gm := gomock.NewController(t)
	defer gm.Finish()

	leds := mocks.NewMockBrightnessStore(gm)
	blink := mocks.NewMockBlinkStore(gm)
	ctrl := light.NewController(leds, blink, light.DefaultChannelLimits())

	for _, tt := range []light.Type{light.TypeKeyboard, light.TypeButtons, light.TypeBluetooth, light.TypeWifi, light.Type(99)} {
		err := ctrl.SetLight(tt, light.State{Color: 0xFFFFFFFF})
		require.ErrorIs(t, err, light.ErrUnsupported, tt.String())
		assert.Equal(t, light.StatusLightNotSupported, light.StatusOf(err))
	}
}

func TestController_SetLight_Backlight(t *testing.T) {
	gm := gomock.NewController(t)
	defer gm.Finish()

	leds := mocks.NewMockBrightnessStore(gm)
	blink := mocks.NewMockBlinkStore(gm)
	leds.EXPECT().WriteBrightness(sysfs.Screen, uint32(2047)).Return(nil)

	ctrl := light.NewController(leds, blink, light.ChannelLimits{Screen: 2047, Red: 255, Green: 255, Blue: 255})
	err := ctrl.SetLight(light.TypeBacklight, light.State{Color: 0xFFFFFFFF})
	require.NoError(t, err)
}

func TestController_SetLight_BacklightIgnoresFlash(t *testing.T) {
	gm := gomock.NewController(t)
	defer gm.Finish()

	leds := mocks.NewMockBrightnessStore(gm)
	blink := mocks.NewMockBlinkStore(gm)
	// 0x80 alpha white: luma 128 -> 128*2047/255
	leds.EXPECT().WriteBrightness(sysfs.Screen, uint32(1027)).Return(nil)

	ctrl := light.NewController(leds, blink, light.DefaultChannelLimits())
	err := ctrl.SetLight(light.TypeBacklight, light.State{
		Color:      0x80FFFFFF,
		FlashMode:  light.FlashTimed,
		FlashOnMs:  500,
		FlashOffMs: 500,
	})
	require.NoError(t, err)
}

func TestController_SetLight_StaticNotification(t *testing.T) {
	gm := gomock.NewController(t)
	defer gm.Finish()

	leds := mocks.NewMockBrightnessStore(gm)
	blink := mocks.NewMockBlinkStore(gm)

	gomock.InOrder(
		blink.EXPECT().WriteBlinkEnable(sysfs.Red, false).Return(nil),
		blink.EXPECT().WriteBlinkEnable(sysfs.Blue, false).Return(nil),
		blink.EXPECT().WriteBlinkEnable(sysfs.Green, false).Return(nil),
		leds.EXPECT().WriteBrightness(sysfs.Red, uint32(0)).Return(nil),
		leds.EXPECT().WriteBrightness(sysfs.Blue, uint32(0)).Return(nil),
		leds.EXPECT().WriteBrightness(sysfs.Green, uint32(149)).Return(nil),
	)

	ctrl := light.NewController(leds, blink, light.DefaultChannelLimits())
	err := ctrl.SetLight(light.TypeNotifications, light.State{Color: 0xFF00FF00})
	require.NoError(t, err)
}

func TestController_SetLight_FlashingNotification(t *testing.T) {
	ctrl, store := newRecordingController()

	err := ctrl.SetLight(light.TypeNotifications, light.State{
		Color:      0xFFFFFFFF,
		FlashMode:  light.FlashTimed,
		FlashOnMs:  3000,
		FlashOffMs: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"red/blink=false",
		"blue/blink=false",
		"green/blink=false",

		"red/lut_flags=95",
		"red/start_idx=0",
		"red/duty_pcts=0,3,7,11,14,21,25,29",
		"red/pause_lo=1000",
		"red/pause_hi=600",
		"red/ramp_step_ms=150",
		"red/blink=true",

		"blue/lut_flags=95",
		"blue/start_idx=0",
		"blue/duty_pcts=0,1,2,4,5,7,9,10",
		"blue/pause_lo=1000",
		"blue/pause_hi=600",
		"blue/ramp_step_ms=150",
		"blue/blink=true",

		"green/lut_flags=95",
		"green/start_idx=0",
		"green/duty_pcts=0,7,14,21,29,42,49,58",
		"green/pause_lo=1000",
		"green/pause_hi=600",
		"green/ramp_step_ms=150",
		"green/blink=true",
	}, store.take())
}

func TestController_SetLight_ShortFlashShrinksStep(t *testing.T) {
	ctrl, store := newRecordingController()

	err := ctrl.SetLight(light.TypeBattery, light.State{
		Color:      0xFFFF0000,
		FlashMode:  light.FlashTimed,
		FlashOnMs:  1000,
		FlashOffMs: 3000,
	})
	require.NoError(t, err)

	writes := store.take()
	assert.Contains(t, writes, "red/ramp_step_ms=62")
	assert.Contains(t, writes, "red/pause_hi=0")
	assert.Contains(t, writes, "red/pause_lo=3000")
	assert.Contains(t, writes, "green/duty_pcts=0,0,0,0,0,0,0,0")
}

func TestController_SetLight_TimedWithZeroDurationIsStatic(t *testing.T) {
	ctrl, store := newRecordingController()

	err := ctrl.SetLight(light.TypeBattery, light.State{
		Color:      0xFF0000FF,
		FlashMode:  light.FlashTimed,
		FlashOnMs:  500,
		FlashOffMs: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"red/blink=false",
		"blue/blink=false",
		"green/blink=false",
		"red/brightness=0",
		"blue/brightness=28",
		"green/brightness=0",
	}, store.take())
}

func TestController_SetLight_CustomRampAndFlags(t *testing.T) {
	ctrl, store := newRecordingController(
		light.WithRamp(brightness.Ramp{0, 50, 100}),
		light.WithRampStep(100),
		light.WithLUTFlags(31),
	)

	err := ctrl.SetLight(light.TypeBattery, light.State{
		Color:      0xFF00FF00,
		FlashMode:  light.FlashTimed,
		FlashOnMs:  1000,
		FlashOffMs: 200,
	})
	require.NoError(t, err)

	writes := store.take()
	assert.Contains(t, writes, "green/lut_flags=31")
	assert.Contains(t, writes, "green/duty_pcts=0,29,58")
	assert.Contains(t, writes, "green/ramp_step_ms=100")
	assert.Contains(t, writes, "green/pause_hi=400")
}

func TestController_SetLight_ArbitrationDrivesOutput(t *testing.T) {
	var actives []light.Entry
	ctrl, store := newRecordingController(light.WithActiveHandler(func(active light.Entry) {
		actives = append(actives, active)
	}))

	require.NoError(t, ctrl.SetLight(light.TypeBattery, light.State{Color: 0x00000000}))
	require.NoError(t, ctrl.SetLight(light.TypeNotifications, light.State{Color: 0xFFFF0000}))
	store.take()

	// Attention ranks above notifications and takes the LED.
	require.NoError(t, ctrl.SetLight(light.TypeAttention, light.State{Color: 0xFF0000FF}))
	writes := store.take()
	assert.Contains(t, writes, "blue/brightness=28")
	assert.Contains(t, writes, "red/brightness=0")
	assert.Equal(t, light.TypeAttention, ctrl.Active().Type)

	// Attention off: the retained notification state is shown again.
	require.NoError(t, ctrl.SetLight(light.TypeAttention, light.State{Color: 0xFF000000}))
	assert.Contains(t, store.take(), "red/brightness=76")
	assert.Equal(t, light.TypeNotifications, ctrl.Active().Type)

	// Everything off: battery's last state is shown.
	require.NoError(t, ctrl.SetLight(light.TypeNotifications, light.State{Color: 0x00000000}))
	assert.Equal(t, light.TypeBattery, ctrl.Active().Type)

	require.Len(t, actives, 5)
	assert.Equal(t, light.TypeBattery, actives[0].Type)
	assert.Equal(t, light.TypeNotifications, actives[1].Type)
	assert.Equal(t, light.TypeAttention, actives[2].Type)
	assert.Equal(t, light.TypeNotifications, actives[3].Type)
	assert.Equal(t, light.TypeBattery, actives[4].Type)
}

func TestController_SetLight_WriteErrorsAreNotReturned(t *testing.T) {
	store := &recordingStore{err: errors.New("read-only file system")}
	ctrl := light.NewController(store, store, light.DefaultChannelLimits())

	require.NoError(t, ctrl.SetLight(light.TypeBacklight, light.State{Color: 0xFFFFFFFF}))
	require.NoError(t, ctrl.SetLight(light.TypeBattery, light.State{Color: 0xFFFFFFFF}))

	// Every write is still attempted after a failure.
	assert.Len(t, store.take(), 1+3+3)
}

func TestController_Reapply(t *testing.T) {
	ctrl, store := newRecordingController()

	// Nothing set yet: only the (off) notification state is rewritten.
	ctrl.Reapply()
	assert.Equal(t, []string{
		"red/blink=false",
		"blue/blink=false",
		"green/blink=false",
		"red/brightness=0",
		"blue/brightness=0",
		"green/brightness=0",
	}, store.take())

	require.NoError(t, ctrl.SetLight(light.TypeBacklight, light.State{Color: 0xFFFFFFFF}))
	require.NoError(t, ctrl.SetLight(light.TypeAttention, light.State{Color: 0xFF00FF00}))
	store.take()

	ctrl.Reapply()
	assert.Equal(t, []string{
		"screen/brightness=2047",
		"red/blink=false",
		"blue/blink=false",
		"green/blink=false",
		"red/brightness=0",
		"blue/brightness=0",
		"green/brightness=149",
	}, store.take())
}

func TestController_SetLight_Concurrent(t *testing.T) {
	ctrl, store := newRecordingController()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			typ := light.DefaultPriority[i%len(light.DefaultPriority)]
			_ = ctrl.SetLight(typ, light.State{Color: 0xFF000000 | uint32(i)})
		}(i)
	}
	wg.Wait()

	// Each request writes 3 blink disables and 3 brightness values, never interleaved.
	writes := store.take()
	require.Len(t, writes, 20*6)
	for i := 0; i < len(writes); i += 6 {
		assert.Equal(t, "red/blink=false", writes[i])
		assert.Equal(t, "blue/blink=false", writes[i+1])
		assert.Equal(t, "green/blink=false", writes[i+2])
	}
}
