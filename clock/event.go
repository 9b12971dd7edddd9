package clock

// TriggerKind tags the two ways a scheduled event can become due.
type TriggerKind uint8

// The trigger kinds.
const (
	// TriggerAtTime fires when accumulated game time reaches an absolute
	// threshold.
	TriggerAtTime TriggerKind = iota + 1

	// TriggerAtDay fires on the first frame whose calendar day is at or
	// past a target day.
	TriggerAtDay
)

// Trigger describes when a scheduled event becomes due.
type Trigger struct {
	Kind TriggerKind

	// Time is the absolute game-time threshold. Valid when Kind is
	// TriggerAtTime.
	Time GameTimeInSec

	// Day is the target calendar day. Valid when Kind is TriggerAtDay.
	Day int
}

// AtTime builds a trigger for an absolute game-time threshold.
func AtTime(t GameTimeInSec) Trigger {
	return Trigger{Kind: TriggerAtTime, Time: t}
}

// AtDay builds a trigger for a target calendar day.
func AtDay(day int) Trigger {
	return Trigger{Kind: TriggerAtDay, Day: day}
}

// effectiveTime maps both trigger kinds onto one game-time axis so that
// events becoming due in the same pass fire in a deterministic order. A
// day trigger is effective at the start of its day.
func (t Trigger) effectiveTime(secondsPerDay float64) GameTimeInSec {
	if t.Kind == TriggerAtDay {
		return DayStartTime(t.Day, secondsPerDay)
	}

	return t.Time
}

// Callback is the work a scheduled event performs when it fires.
type Callback interface {
	Execute(now GameTimeInSec) error
}

// CallbackFunc adapts a plain function to the Callback interface.
type CallbackFunc func(now GameTimeInSec) error

// Execute calls f.
func (f CallbackFunc) Execute(now GameTimeInSec) error {
	return f(now)
}

// PersistentCallback is a Callback that can survive save and load. The
// clock persists the event type tag and parameters instead of the callback
// itself; an event factory rebuilds the behavior at load time.
type PersistentCallback interface {
	Callback

	// EventType is the stable identifier the event factory keys on.
	EventType() string

	// Params are the plain-data arguments passed back to the factory.
	Params() map[string]any
}

// ScheduledEvent is one pending delayed or dated callback. Events are
// value types with unique, monotonically assigned ids that are never
// reused within a run. An event is immutable after creation and is removed
// from the registry the instant it fires or is cancelled.
type ScheduledEvent struct {
	ID       uint64
	Trigger  Trigger
	Callback Callback
}

// Handle is a weak reference to a scheduled event. Its validity is
// recomputed by live lookup rather than cached, so it observes firing and
// cancellation immediately.
type Handle struct {
	id        uint64
	scheduler *Scheduler
}

// InvalidHandle is returned when scheduling is rejected.
var InvalidHandle = Handle{}

// ID returns the event id the handle refers to.
func (h Handle) ID() uint64 {
	return h.id
}

// IsValid reports whether the referenced event is still pending.
func (h Handle) IsValid() bool {
	return h.scheduler != nil && h.scheduler.HasEvent(h.id)
}
