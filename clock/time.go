package clock

// GameTimeInSec is accumulated simulated time in seconds. It advances by
// the speed-scaled frame delta and freezes while the clock is paused.
type GameTimeInSec float64

// RealTimeInSec is wall-clock-proportional accumulated time in seconds.
// It is unaffected by the speed multiplier and by pausing.
type RealTimeInSec float64

// TimeTeller can be used to get the current game time.
type TimeTeller interface {
	Now() GameTimeInSec
}

// DefaultEpsilon is the tolerance used when comparing accumulated
// floating-point time against a trigger or tick threshold. It is a tuning
// constant, exposed through Config for platforms where floating-point
// drift behaves differently.
const DefaultEpsilon = 1e-4
