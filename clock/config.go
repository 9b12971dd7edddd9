package clock

import (
	"log"
	"math"
	"os"
)

// Speed multiplier bounds. SetSpeed clamps into [MinSpeed, MaxSpeed] and
// falls back to DefaultSpeed on non-finite input.
const (
	MinSpeed     float32 = 0.0
	MaxSpeed     float32 = 10.0
	DefaultSpeed float32 = 1.0
)

// Default configuration values used when a Config field is left zero.
const (
	DefaultTickRate           TickRate = 10
	DefaultSecondsPerDay               = 1200.0
	DefaultMaxFiringsPerFrame          = 100
)

// Config is the fixed set of knobs that a Clock accepts. The zero value of
// every field selects its default.
type Config struct {
	// TickRate is the number of simulation ticks per game-time second.
	TickRate TickRate

	// SecondsPerDay is the game time that makes up one calendar day. It is
	// used consistently by the calendar and by day-trigger math.
	SecondsPerDay float64

	// InitialSpeed is the time-speed multiplier at session start.
	InitialSpeed float32

	// StartPaused makes the clock start in the paused state.
	StartPaused bool

	// MaxFiringsPerFrame caps how many scheduled events fire in one frame.
	// Events beyond the cap stay pending and retry on the next frame.
	MaxFiringsPerFrame int

	// Epsilon is the floating-point tolerance for tick and trigger
	// threshold comparisons.
	Epsilon float64

	// Logger receives warnings and isolated callback failures. The clock
	// never propagates those as hard failures.
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, "gameclock: ", log.LstdFlags)
	}

	if c.TickRate <= 0 {
		if c.TickRate < 0 {
			c.Logger.Printf("invalid tick rate %v, using default %v",
				c.TickRate, DefaultTickRate)
		}
		c.TickRate = DefaultTickRate
	}

	if c.SecondsPerDay <= 0 || math.IsInf(c.SecondsPerDay, 0) ||
		math.IsNaN(c.SecondsPerDay) {
		if c.SecondsPerDay != 0 {
			c.Logger.Printf("invalid seconds per day %v, using default %v",
				c.SecondsPerDay, DefaultSecondsPerDay)
		}
		c.SecondsPerDay = DefaultSecondsPerDay
	}

	if c.InitialSpeed == 0 {
		c.InitialSpeed = DefaultSpeed
	}

	if c.MaxFiringsPerFrame <= 0 {
		c.MaxFiringsPerFrame = DefaultMaxFiringsPerFrame
	}

	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}

	return c
}
