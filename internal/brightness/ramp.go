package brightness

// DefaultRampStepMs is how long each ramp step stays on unless the
// requested on-time is too short to fit a full ramp.
const DefaultRampStepMs uint32 = 150

// MaxDutyPercent is the largest value allowed in a Ramp.
const MaxDutyPercent uint32 = 100

// Ramp is an ordered list of PWM duty percentages (0-100) that the LED
// steps through while fading up, and in reverse while fading down.
type Ramp []uint32

// DefaultRamp is the fade shape programmed into the LED lookup table.
var DefaultRamp = Ramp{0, 12, 25, 37, 50, 72, 85, 100}

// Valid reports whether the ramp is non-empty and every step is within 0-100.
func (r Ramp) Valid() bool {
	if len(r) == 0 {
		return false
	}
	for _, pct := range r {
		if pct > MaxDutyPercent {
			return false
		}
	}
	return true
}

// Timing holds the blink timing parameters written to an LED channel.
type Timing struct {
	StepMs      uint32
	PauseHighMs uint32
	PauseLowMs  uint32
}

// PlanTiming fits a ramp-up plus ramp-down into flashOnMs.
//
// With the default step the ramp takes stepMs*len(ramp)*2; whatever is
// left of flashOnMs is held at full brightness. When the on-time is
// shorter than the ramp the step is shrunk to flashOnMs/(len(ramp)*2)
// and there is no high pause. A step that truncates to 0 is passed
// through unchanged, as the LED driver has always accepted it.
func PlanTiming(flashOnMs, flashOffMs int32, ramp Ramp, stepMs uint32) Timing {
	t := Timing{
		StepMs:     stepMs,
		PauseLowMs: nonNegative(int64(flashOffMs)),
	}

	steps := int64(len(ramp)) * 2
	pauseHigh := int64(flashOnMs) - int64(stepMs)*steps
	if pauseHigh < 0 {
		if steps > 0 {
			t.StepMs = nonNegative(int64(flashOnMs) / steps)
		}
		pauseHigh = 0
	}
	t.PauseHighMs = uint32(pauseHigh)

	return t
}

func nonNegative(v int64) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
