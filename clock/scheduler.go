package clock

import (
	"log"
	"math"
	"sort"
	"sync"
)

// Scheduler holds the registry of pending delayed and dated callbacks. It
// advances with accumulated game time and the calendar day, fires due
// events in deterministic order, and supports cancellation by handle.
//
// The registry maps event ids to compact value-typed events, so a thousand
// live events cost one map and no per-event heap objects. Firing order is
// computed at processing time, not maintained in the registry.
type Scheduler struct {
	timeTeller TimeTeller
	hooks      *HookableBase
	logger     *log.Logger

	epsilon            float64
	secondsPerDay      float64
	maxFiringsPerFrame int

	lock   sync.Mutex
	nextID uint64
	events map[uint64]ScheduledEvent
}

func newScheduler(
	timeTeller TimeTeller,
	hooks *HookableBase,
	cfg Config,
) *Scheduler {
	return &Scheduler{
		timeTeller:         timeTeller,
		hooks:              hooks,
		logger:             cfg.Logger,
		epsilon:            cfg.Epsilon,
		secondsPerDay:      cfg.SecondsPerDay,
		maxFiringsPerFrame: cfg.MaxFiringsPerFrame,
		events:             make(map[uint64]ScheduledEvent),
	}
}

// ScheduleEvent registers a callback to fire once the accumulated game
// time has advanced by delay. The trigger threshold is fixed at scheduling
// time. A nil callback or a negative or non-finite delay is rejected with
// a reported warning and an invalid handle.
func (s *Scheduler) ScheduleEvent(
	delay GameTimeInSec,
	callback Callback,
) Handle {
	if callback == nil {
		s.logger.Printf("rejected scheduling: nil callback")
		return InvalidHandle
	}

	if delay < 0 || math.IsNaN(float64(delay)) || math.IsInf(float64(delay), 0) {
		s.logger.Printf("rejected scheduling: invalid delay %v", delay)
		return InvalidHandle
	}

	trigger := AtTime(s.timeTeller.Now() + delay)

	return s.insert(trigger, callback)
}

// ScheduleEventAtDay registers a callback to fire on the first frame whose
// calendar day is at or past the given day. Days in the past fire on the
// very next processing pass. A nil callback or a day below 1 is rejected
// with a reported warning and an invalid handle.
func (s *Scheduler) ScheduleEventAtDay(day int, callback Callback) Handle {
	if callback == nil {
		s.logger.Printf("rejected scheduling: nil callback")
		return InvalidHandle
	}

	if day < 1 {
		s.logger.Printf("rejected scheduling: invalid day %d", day)
		return InvalidHandle
	}

	return s.insert(AtDay(day), callback)
}

func (s *Scheduler) insert(trigger Trigger, callback Callback) Handle {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	id := s.nextID

	s.events[id] = ScheduledEvent{
		ID:       id,
		Trigger:  trigger,
		Callback: callback,
	}

	return Handle{id: id, scheduler: s}
}

// CancelScheduledEvent removes a pending event. It returns false if the
// handle is invalid, already cancelled, or already fired. Cancellation is
// immediate: once it returns true the event will not fire, even if it was
// already due in the current frame.
func (s *Scheduler) CancelScheduledEvent(h Handle) bool {
	if h.scheduler != s {
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.events[h.id]; !ok {
		return false
	}

	delete(s.events, h.id)

	return true
}

// HasEvent reports whether an event with the given id is still pending.
func (s *Scheduler) HasEvent(id uint64) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, ok := s.events[id]

	return ok
}

// PendingEventCount returns the number of live events in the registry.
func (s *Scheduler) PendingEventCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.events)
}

// PendingEvents returns a snapshot of the live events, ordered by id.
func (s *Scheduler) PendingEvents() []ScheduledEvent {
	s.lock.Lock()
	defer s.lock.Unlock()

	pending := make([]ScheduledEvent, 0, len(s.events))
	for _, evt := range s.events {
		pending = append(pending, evt)
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ID < pending[j].ID
	})

	return pending
}

// restore reinserts an event under its original id, keeping the id
// assignment monotonic. Used by the persistence adapter only.
func (s *Scheduler) restore(evt ScheduledEvent) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.events[evt.ID] = evt
	if evt.ID > s.nextID {
		s.nextID = evt.ID
	}
}

// clear drops all pending events. Used by the persistence adapter only.
func (s *Scheduler) clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.events = make(map[uint64]ScheduledEvent)
}

// process fires the events that are due at the given game time and
// calendar day. Events that become due in the same pass fire in ascending
// effective trigger time, ties broken by ascending id. At most
// maxFiringsPerFrame events fire per pass; the overflow stays pending and
// retries next frame in the same priority order. It returns the number of
// events fired.
func (s *Scheduler) process(now GameTimeInSec, day int) int {
	due := s.collectDue(now, day)

	if len(due) > s.maxFiringsPerFrame {
		due = due[:s.maxFiringsPerFrame]
	}

	fired := 0

	for _, id := range due {
		s.lock.Lock()
		evt, ok := s.events[id]
		if ok {
			// Remove before running so the event cannot fire twice
			// and its id is never revived.
			delete(s.events, id)
		}
		s.lock.Unlock()

		if !ok {
			// Cancelled by an earlier callback in this same pass.
			continue
		}

		s.fire(evt, now)
		fired++
	}

	return fired
}

func (s *Scheduler) collectDue(now GameTimeInSec, day int) []uint64 {
	s.lock.Lock()

	type dueEvent struct {
		id uint64
		at GameTimeInSec
	}

	due := make([]dueEvent, 0)

	for id, evt := range s.events {
		switch evt.Trigger.Kind {
		case TriggerAtTime:
			if float64(now) >= float64(evt.Trigger.Time)-s.epsilon {
				due = append(due, dueEvent{id, evt.Trigger.Time})
			}
		case TriggerAtDay:
			if day >= evt.Trigger.Day {
				at := evt.Trigger.effectiveTime(s.secondsPerDay)
				due = append(due, dueEvent{id, at})
			}
		}
	}

	s.lock.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})

	ids := make([]uint64, len(due))
	for i, d := range due {
		ids[i] = d.id
	}

	return ids
}

// fire runs one event callback with failure isolation. An error or panic
// inside the callback is reported and does not prevent the remaining due
// events from firing.
func (s *Scheduler) fire(evt ScheduledEvent, now GameTimeInSec) {
	ctx := HookCtx{
		Domain: s.hooks,
		Pos:    HookPosBeforeEventFire,
		Item:   evt,
	}
	s.hooks.InvokeHook(ctx)

	defer func() {
		ctx.Pos = HookPosAfterEventFire
		s.hooks.InvokeHook(ctx)
	}()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("event %d callback panicked: %v", evt.ID, r)
		}
	}()

	if err := evt.Callback.Execute(now); err != nil {
		s.logger.Printf("event %d callback failed: %v", evt.ID, err)
	}
}
