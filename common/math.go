package common

// FixedDelta is the simulation step in seconds.
const FixedDelta = 1.0 / 60.0

// timerEpsilon absorbs the rounding left after counting a whole number of
// steps off a timer.
const timerEpsilon = 1e-9

// Countdown subtracts dt from a timer, stopping at zero.
func Countdown(timer, dt float64) float64 {
	timer -= dt
	if timer < timerEpsilon {
		return 0
	}
	return timer
}
