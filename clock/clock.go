// Package clock implements a calendar-aware, speed-adjustable,
// frame-driven game clock with a fixed-rate tick broadcaster and a
// discrete-event scheduler.
//
// A Clock is driven by exactly one external call per frame, Advance, and
// runs every operation to completion synchronously inside that call. The
// per-frame sequence is strictly calendar update, then tick broadcast,
// then event processing, so day-scheduled events always observe the
// current frame's day. Mutating operations belong on the host frame
// goroutine; the read accessors take a read lock so an observer such as
// the monitoring server can sample consistent state from the side.
package clock

import (
	"errors"
	"log"
	"math"
	"sync"
)

// ErrInvalidDelta is returned by Advance when the frame delta is negative
// or not finite. The frame is skipped; the clock state is unchanged.
var ErrInvalidDelta = errors.New("frame delta must be a non-negative finite number")

// Clock is the single source of truth for accumulated game time. It owns
// the clock state, the calendar, the tick broadcaster, and the event
// scheduler. Create one per session with New and pass it to every
// consumer that needs it.
type Clock struct {
	HookableBase

	logger *log.Logger
	cfg    Config

	stateLock      sync.RWMutex
	totalGameTime  GameTimeInSec
	totalRealTime  RealTimeInSec
	timeSpeed      float32
	isPaused       bool
	currentDay     int
	currentPhase   Phase
	yearsCompleted int

	ticker    *tickBroadcaster
	scheduler *Scheduler

	daySubscribers   *subscriberList[func(oldDay, newDay int)]
	phaseSubscribers *subscriberList[func(oldPhase, newPhase Phase)]
	speedSubscribers *subscriberList[func(oldSpeed, newSpeed float32)]
	yearSubscribers  *subscriberList[func(yearsCompleted int)]
}

// New creates a Clock from the given configuration. Zero-valued fields of
// the configuration select their defaults.
func New(cfg Config) *Clock {
	cfg = cfg.withDefaults()

	c := &Clock{
		logger:           cfg.Logger,
		cfg:              cfg,
		timeSpeed:        sanitizeSpeed(cfg.InitialSpeed, cfg.Logger),
		isPaused:         cfg.StartPaused,
		currentDay:       1,
		currentPhase:     PhaseEarlyYear,
		ticker:           newTickBroadcaster(cfg),
		daySubscribers:   newSubscriberList[func(oldDay, newDay int)](),
		phaseSubscribers: newSubscriberList[func(oldPhase, newPhase Phase)](),
		speedSubscribers: newSubscriberList[func(oldSpeed, newSpeed float32)](),
		yearSubscribers:  newSubscriberList[func(yearsCompleted int)](),
	}

	c.scheduler = newScheduler(c, &c.HookableBase, cfg)

	return c
}

// Advance moves the clock forward by one frame. The host must call it at
// least once per logical frame with the unscaled wall time slice in
// seconds. Real time always accumulates; game time accumulates the
// speed-scaled delta and freezes while paused.
func (c *Clock) Advance(unscaledDelta RealTimeInSec) error {
	d := float64(unscaledDelta)
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		c.logger.Printf("dropped frame advance with invalid delta %v",
			unscaledDelta)
		return ErrInvalidDelta
	}

	c.stateLock.Lock()
	paused := c.isPaused
	scaled := GameTimeInSec(0)
	if !paused {
		scaled = GameTimeInSec(d * float64(c.timeSpeed))
	}
	c.totalRealTime += unscaledDelta
	c.totalGameTime += scaled
	now := c.totalGameTime
	c.stateLock.Unlock()

	day := c.updateCalendar(now)

	if !paused {
		c.ticker.advance(scaled)
	}

	c.scheduler.process(now, day)

	return nil
}

// updateCalendar recomputes the day, phase, and year count from the
// accumulated game time and raises change notifications synchronously,
// before tick and event processing for the frame. It returns the current
// day.
func (c *Clock) updateCalendar(now GameTimeInSec) int {
	newDay := DayOfYear(now, c.cfg.SecondsPerDay)
	newPhase := PhaseOfDay(newDay)
	newYears := YearsCompleted(now, c.cfg.SecondsPerDay)

	c.stateLock.Lock()
	oldDay := c.currentDay
	oldPhase := c.currentPhase
	oldYears := c.yearsCompleted
	c.currentDay = newDay
	c.currentPhase = newPhase
	c.yearsCompleted = newYears
	c.stateLock.Unlock()

	if newDay != oldDay {
		c.daySubscribers.each(func(fn func(oldDay, newDay int)) {
			safeNotify(c.logger, "day-changed", func() { fn(oldDay, newDay) })
		})
	}

	if newYears > oldYears {
		c.yearSubscribers.each(func(fn func(yearsCompleted int)) {
			safeNotify(c.logger, "year-rollover", func() { fn(newYears) })
		})
	}

	if newPhase != oldPhase {
		c.phaseSubscribers.each(func(fn func(oldPhase, newPhase Phase)) {
			safeNotify(c.logger, "phase-changed", func() { fn(oldPhase, newPhase) })
		})
	}

	return newDay
}

// SetSpeed applies a new time-speed multiplier, clamped into
// [MinSpeed, MaxSpeed]. Non-finite input is reported and falls back to
// DefaultSpeed. It returns the speed actually applied and raises a
// speed-changed notification only when the applied value differs from the
// previous one.
func (c *Clock) SetSpeed(value float32) float32 {
	applied := sanitizeSpeed(value, c.logger)

	c.stateLock.Lock()
	old := c.timeSpeed
	c.timeSpeed = applied
	c.stateLock.Unlock()

	if applied != old {
		c.speedSubscribers.each(func(fn func(oldSpeed, newSpeed float32)) {
			safeNotify(c.logger, "speed-changed", func() { fn(old, applied) })
		})
	}

	return applied
}

func sanitizeSpeed(value float32, logger *log.Logger) float32 {
	v := float64(value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		logger.Printf("invalid time speed %v, falling back to %v",
			value, DefaultSpeed)
		return DefaultSpeed
	}

	if value < MinSpeed {
		return MinSpeed
	}

	if value > MaxSpeed {
		return MaxSpeed
	}

	return value
}

// Pause freezes game time. The configured speed is preserved so Resume
// restores it.
func (c *Clock) Pause() {
	c.stateLock.Lock()
	c.isPaused = true
	c.stateLock.Unlock()
}

// Resume unfreezes game time at the previously configured speed.
func (c *Clock) Resume() {
	c.stateLock.Lock()
	c.isPaused = false
	c.stateLock.Unlock()
}

// TogglePause flips the paused state and returns the new value.
func (c *Clock) TogglePause() bool {
	c.stateLock.Lock()
	c.isPaused = !c.isPaused
	paused := c.isPaused
	c.stateLock.Unlock()

	return paused
}

// Now returns the accumulated game time.
func (c *Clock) Now() GameTimeInSec {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.totalGameTime
}

// RealTime returns the accumulated unscaled time.
func (c *Clock) RealTime() RealTimeInSec {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.totalRealTime
}

// Speed returns the current time-speed multiplier.
func (c *Clock) Speed() float32 {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.timeSpeed
}

// IsPaused reports whether game time is frozen.
func (c *Clock) IsPaused() bool {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.isPaused
}

// Day returns the current day of the year, in [1, DaysPerYear].
func (c *Clock) Day() int {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.currentDay
}

// Month returns the current month, in [1, MonthsPerYear].
func (c *Clock) Month() int {
	month, _ := MonthOfDay(c.Day())
	return month
}

// DayOfMonth returns the day within the current month.
func (c *Clock) DayOfMonth() int {
	_, dayOfMonth := MonthOfDay(c.Day())
	return dayOfMonth
}

// CurrentPhase returns the seasonal phase of the current day.
func (c *Clock) CurrentPhase() Phase {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.currentPhase
}

// Years returns how many full years have elapsed this session.
func (c *Clock) Years() int {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.yearsCompleted
}

// SecondsPerDay returns the configured game seconds per calendar day.
func (c *Clock) SecondsPerDay() float64 {
	return c.cfg.SecondsPerDay
}

// Logger returns the logger that receives the clock's warnings.
func (c *Clock) Logger() *log.Logger {
	return c.logger
}

// ScheduleEvent registers a callback to fire after the given game-time
// delay. See Scheduler.ScheduleEvent.
func (c *Clock) ScheduleEvent(delay GameTimeInSec, callback Callback) Handle {
	return c.scheduler.ScheduleEvent(delay, callback)
}

// ScheduleEventAtDay registers a callback to fire on the given calendar
// day. See Scheduler.ScheduleEventAtDay.
func (c *Clock) ScheduleEventAtDay(day int, callback Callback) Handle {
	return c.scheduler.ScheduleEventAtDay(day, callback)
}

// CancelScheduledEvent removes a pending event. See
// Scheduler.CancelScheduledEvent.
func (c *Clock) CancelScheduledEvent(h Handle) bool {
	return c.scheduler.CancelScheduledEvent(h)
}

// HasEvent reports whether an event with the given id is still pending.
func (c *Clock) HasEvent(id uint64) bool {
	return c.scheduler.HasEvent(id)
}

// PendingEventCount returns the number of live scheduled events.
func (c *Clock) PendingEventCount() int {
	return c.scheduler.PendingEventCount()
}

// PendingEvents returns a snapshot of the live scheduled events, ordered
// by id.
func (c *Clock) PendingEvents() []ScheduledEvent {
	return c.scheduler.PendingEvents()
}

// SubscribeTick registers a handler invoked once per simulation tick.
func (c *Clock) SubscribeTick(fn func()) SubscriptionID {
	return c.ticker.subscribe(fn)
}

// UnsubscribeTick removes a tick subscriber.
func (c *Clock) UnsubscribeTick(id SubscriptionID) bool {
	return c.ticker.unsubscribe(id)
}

// SubscribeDayChanged registers a handler invoked when the calendar day
// changes.
func (c *Clock) SubscribeDayChanged(
	fn func(oldDay, newDay int),
) SubscriptionID {
	return c.daySubscribers.add(fn)
}

// UnsubscribeDayChanged removes a day-changed subscriber.
func (c *Clock) UnsubscribeDayChanged(id SubscriptionID) bool {
	return c.daySubscribers.remove(id)
}

// SubscribePhaseChanged registers a handler invoked when the seasonal
// phase changes.
func (c *Clock) SubscribePhaseChanged(
	fn func(oldPhase, newPhase Phase),
) SubscriptionID {
	return c.phaseSubscribers.add(fn)
}

// UnsubscribePhaseChanged removes a phase-changed subscriber.
func (c *Clock) UnsubscribePhaseChanged(id SubscriptionID) bool {
	return c.phaseSubscribers.remove(id)
}

// SubscribeSpeedChanged registers a handler invoked when the applied
// speed multiplier changes.
func (c *Clock) SubscribeSpeedChanged(
	fn func(oldSpeed, newSpeed float32),
) SubscriptionID {
	return c.speedSubscribers.add(fn)
}

// UnsubscribeSpeedChanged removes a speed-changed subscriber.
func (c *Clock) UnsubscribeSpeedChanged(id SubscriptionID) bool {
	return c.speedSubscribers.remove(id)
}

// SubscribeYearRollover registers a handler invoked when the day wraps
// from DaysPerYear back to 1. It receives the number of full years
// completed this session.
func (c *Clock) SubscribeYearRollover(
	fn func(yearsCompleted int),
) SubscriptionID {
	return c.yearSubscribers.add(fn)
}

// UnsubscribeYearRollover removes a year-rollover subscriber.
func (c *Clock) UnsubscribeYearRollover(id SubscriptionID) bool {
	return c.yearSubscribers.remove(id)
}

// RestoredState is the validated clock state applied by the persistence
// adapter when loading a snapshot.
type RestoredState struct {
	GameTime GameTimeInSec
	RealTime RealTimeInSec
	Speed    float32
	Paused   bool
	Day      int
}

// RestoreState overwrites the clock state from a loaded snapshot. No
// change notifications fire; the restored day stands until the next
// Advance recomputes it from game time. The tick accumulator restarts
// from zero.
func (c *Clock) RestoreState(st RestoredState) {
	c.stateLock.Lock()
	c.totalGameTime = st.GameTime
	c.totalRealTime = st.RealTime
	c.timeSpeed = st.Speed
	c.isPaused = st.Paused
	c.currentDay = st.Day
	c.currentPhase = PhaseOfDay(st.Day)
	c.yearsCompleted = YearsCompleted(st.GameTime, c.cfg.SecondsPerDay)
	c.stateLock.Unlock()

	c.ticker.accumulator = 0
}

// RestoreEvent reinserts a scheduled event under its original id. Used by
// the persistence adapter after rebuilding the callback through an event
// factory.
func (c *Clock) RestoreEvent(id uint64, trigger Trigger, callback Callback) {
	c.scheduler.restore(ScheduledEvent{
		ID:       id,
		Trigger:  trigger,
		Callback: callback,
	})
}

// ClearEvents drops every pending scheduled event.
func (c *Clock) ClearEvents() {
	c.scheduler.clear()
}

// Reset returns the clock to its configured session-start state: zero
// accumulated time, day 1, the configured initial speed and pause flag,
// and no pending events.
func (c *Clock) Reset() {
	c.RestoreState(RestoredState{
		Speed:  sanitizeSpeed(c.cfg.InitialSpeed, c.logger),
		Paused: c.cfg.StartPaused,
		Day:    1,
	})
	c.ClearEvents()
}
