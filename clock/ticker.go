package clock

import "log"

// tickBroadcaster accumulates scaled delta time and emits discrete tick
// notifications at a fixed logical rate, independent of the frame rate.
type tickBroadcaster struct {
	logger   *log.Logger
	interval GameTimeInSec
	epsilon  float64

	accumulator GameTimeInSec
	subscribers *subscriberList[func()]
}

func newTickBroadcaster(cfg Config) *tickBroadcaster {
	return &tickBroadcaster{
		logger:      cfg.Logger,
		interval:    cfg.TickRate.Interval(),
		epsilon:     cfg.Epsilon,
		subscribers: newSubscriberList[func()](),
	}
}

// advance adds the frame's scaled delta to the accumulator and emits one
// tick per elapsed interval. The epsilon absorbs floating-point drift so
// an intended-exact interval reliably fires. There is no cap on ticks per
// frame. It returns the number of ticks emitted.
//
// A paused clock never calls advance, which freezes the accumulator at its
// exact fractional position until the clock resumes.
func (b *tickBroadcaster) advance(scaledDelta GameTimeInSec) int {
	b.accumulator += scaledDelta

	ticks := 0

	for float64(b.accumulator) >= float64(b.interval)-b.epsilon {
		b.accumulator -= b.interval
		b.emit()
		ticks++
	}

	return ticks
}

func (b *tickBroadcaster) emit() {
	b.subscribers.each(func(fn func()) {
		safeNotify(b.logger, "tick", fn)
	})
}

func (b *tickBroadcaster) subscribe(fn func()) SubscriptionID {
	return b.subscribers.add(fn)
}

func (b *tickBroadcaster) unsubscribe(id SubscriptionID) bool {
	return b.subscribers.remove(id)
}
