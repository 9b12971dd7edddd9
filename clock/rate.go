package clock

import "log"

// TickRate defines the number of simulation ticks per game-time second.
type TickRate float64

// Interval returns the game time between two consecutive ticks.
func (r TickRate) Interval() GameTimeInSec {
	if r <= 0 {
		log.Panic("tick rate must be positive")
	}

	return GameTimeInSec(1.0 / float64(r))
}
