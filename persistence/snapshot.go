// Package persistence converts clock state and scheduled-event metadata
// to and from a plain, serializable snapshot. Callbacks are never
// serialized; an event factory rebuilds their behavior at load time from
// a stable event-type tag and plain-data parameters. The storage medium
// itself stays with the caller.
package persistence

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/frostline/gameclock/clock"
)

// Trigger kind tags used in snapshots.
const (
	KindTime = "time"
	KindDay  = "day"
)

// EventSnapshot is the persisted form of one scheduled event: its id and
// trigger descriptor, plus the event-type tag and parameters an event
// factory needs to rebuild the callback. The callback itself is never
// stored.
type EventSnapshot struct {
	ID          uint64         `json:"id"`
	Kind        string         `json:"kind"`
	TriggerTime float64        `json:"trigger_time,omitempty"`
	TriggerDay  int            `json:"trigger_day,omitempty"`
	Type        string         `json:"type,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// Snapshot is the plain save-state record for a clock.
type Snapshot struct {
	TotalGameTime   float64         `json:"total_game_time"`
	TotalRealTime   float64         `json:"total_real_time"`
	TimeSpeed       float32         `json:"time_speed"`
	IsPaused        bool            `json:"is_paused"`
	CurrentDay      int             `json:"current_day"`
	ScheduledEvents []EventSnapshot `json:"scheduled_events"`
}

// Adapter captures and restores a clock's save state.
type Adapter struct {
	clock   *clock.Clock
	factory *Factory
	logger  *log.Logger
}

// NewAdapter creates a persistence adapter for the given clock. The
// factory rebuilds event callbacks at load time; it may be nil if no
// persisted events carry a type tag.
func NewAdapter(c *clock.Clock, factory *Factory) *Adapter {
	return &Adapter{
		clock:   c,
		factory: factory,
		logger:  c.Logger(),
	}
}

// Capture produces a snapshot of the clock state and every live scheduled
// event's trigger descriptor. Events whose callback does not implement
// clock.PersistentCallback are captured without a type tag and cannot be
// given behavior back on load.
func (a *Adapter) Capture() *Snapshot {
	s := &Snapshot{
		TotalGameTime: float64(a.clock.Now()),
		TotalRealTime: float64(a.clock.RealTime()),
		TimeSpeed:     a.clock.Speed(),
		IsPaused:      a.clock.IsPaused(),
		CurrentDay:    a.clock.Day(),
	}

	for _, evt := range a.clock.PendingEvents() {
		es := EventSnapshot{ID: evt.ID}

		switch evt.Trigger.Kind {
		case clock.TriggerAtDay:
			es.Kind = KindDay
			es.TriggerDay = evt.Trigger.Day
		default:
			es.Kind = KindTime
			es.TriggerTime = float64(evt.Trigger.Time)
		}

		if pc, ok := evt.Callback.(clock.PersistentCallback); ok {
			es.Type = pc.EventType()
			es.Params = pc.Params()
		}

		s.ScheduledEvents = append(s.ScheduledEvents, es)
	}

	return s
}

// Restore applies a snapshot to the clock. A nil snapshot resets the
// clock to its defaults. Out-of-range or non-finite fields fall back to
// their defaults individually, each with a reported warning; the rest of
// the snapshot still loads. Persisted events are rebuilt through the
// event factory; events with no type tag or an unregistered one are
// skipped with a warning.
func (a *Adapter) Restore(s *Snapshot) error {
	if s == nil {
		a.logger.Printf("no snapshot to restore, resetting clock to defaults")
		a.clock.Reset()
		return nil
	}

	st := clock.RestoredState{
		GameTime: clock.GameTimeInSec(sanitizeTime(
			s.TotalGameTime, "total game time", a.logger)),
		RealTime: clock.RealTimeInSec(sanitizeTime(
			s.TotalRealTime, "total real time", a.logger)),
		Speed:  sanitizeSpeed(s.TimeSpeed, a.logger),
		Paused: s.IsPaused,
		Day:    sanitizeDay(s.CurrentDay, a.logger),
	}

	a.clock.RestoreState(st)
	a.clock.ClearEvents()

	for _, es := range s.ScheduledEvents {
		a.restoreEvent(es)
	}

	return nil
}

func (a *Adapter) restoreEvent(es EventSnapshot) {
	var trigger clock.Trigger

	switch es.Kind {
	case KindTime:
		trigger = clock.AtTime(clock.GameTimeInSec(es.TriggerTime))
	case KindDay:
		trigger = clock.AtDay(es.TriggerDay)
	default:
		a.logger.Printf("skipping event %d: unknown trigger kind %q",
			es.ID, es.Kind)
		return
	}

	if es.Type == "" {
		a.logger.Printf(
			"skipping event %d: no event type recorded, "+
				"callback cannot be rebuilt", es.ID)
		return
	}

	if a.factory == nil {
		a.logger.Printf("skipping event %d: no event factory provided",
			es.ID)
		return
	}

	callback, err := a.factory.Create(es.Type, es.Params)
	if err != nil {
		a.logger.Printf("skipping event %d: %v", es.ID, err)
		return
	}

	a.clock.RestoreEvent(es.ID, trigger, callback)
}

// SaveTo captures a snapshot and encodes it onto the writer as JSON.
func (a *Adapter) SaveTo(w io.Writer) error {
	return JSONCodec{}.Encode(w, a.Capture())
}

// LoadFrom decodes a JSON snapshot from the reader and restores it.
func (a *Adapter) LoadFrom(r io.Reader) error {
	s, err := JSONCodec{}.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	return a.Restore(s)
}

func sanitizeTime(v float64, what string, logger *log.Logger) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		logger.Printf("snapshot %s %v is invalid, falling back to 0",
			what, v)
		return 0
	}

	return v
}

func sanitizeSpeed(v float32, logger *log.Logger) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		logger.Printf("snapshot time speed %v is invalid, "+
			"falling back to %v", v, clock.DefaultSpeed)
		return clock.DefaultSpeed
	}

	if v < clock.MinSpeed {
		return clock.MinSpeed
	}

	if v > clock.MaxSpeed {
		return clock.MaxSpeed
	}

	return v
}

func sanitizeDay(day int, logger *log.Logger) int {
	if day < 1 || day > clock.DaysPerYear {
		logger.Printf("snapshot day %d is out of range, "+
			"falling back to day 1", day)
		return 1
	}

	return day
}
