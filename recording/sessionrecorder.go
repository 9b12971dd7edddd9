package recording

import (
	"github.com/frostline/gameclock/clock"
)

// Table names used by the session recorder.
const (
	DayChangeTable   = "day_changes"
	PhaseChangeTable = "phase_changes"
	FiredEventTable  = "fired_events"
)

// DayChangeRow records one calendar day transition.
type DayChangeRow struct {
	GameTime float64
	RealTime float64
	OldDay   int
	NewDay   int
}

// PhaseChangeRow records one seasonal phase transition.
type PhaseChangeRow struct {
	GameTime float64
	OldPhase string
	NewPhase string
}

// FiredEventRow records one scheduled event firing.
type FiredEventRow struct {
	GameTime    float64
	EventID     uint64
	TriggerKind string
	TriggerTime float64
	TriggerDay  int
}

// SessionRecorder observes a clock and writes its day changes, phase
// changes, and fired events into a DataRecorder.
type SessionRecorder struct {
	recorder DataRecorder
	clk      *clock.Clock

	daySub   clock.SubscriptionID
	phaseSub clock.SubscriptionID
	stopped  bool
}

// NewSessionRecorder creates the tables and attaches the recorder to the
// clock's notifications and event-fire hooks.
func NewSessionRecorder(
	recorder DataRecorder,
	c *clock.Clock,
) *SessionRecorder {
	r := &SessionRecorder{recorder: recorder, clk: c}

	recorder.CreateTable(DayChangeTable, DayChangeRow{})
	recorder.CreateTable(PhaseChangeTable, PhaseChangeRow{})
	recorder.CreateTable(FiredEventTable, FiredEventRow{})

	r.daySub = c.SubscribeDayChanged(r.recordDayChange)
	r.phaseSub = c.SubscribePhaseChanged(r.recordPhaseChange)
	c.AcceptHook(r)

	return r
}

func (r *SessionRecorder) recordDayChange(oldDay, newDay int) {
	r.recorder.InsertData(DayChangeTable, DayChangeRow{
		GameTime: float64(r.clk.Now()),
		RealTime: float64(r.clk.RealTime()),
		OldDay:   oldDay,
		NewDay:   newDay,
	})
}

func (r *SessionRecorder) recordPhaseChange(oldPhase, newPhase clock.Phase) {
	r.recorder.InsertData(PhaseChangeTable, PhaseChangeRow{
		GameTime: float64(r.clk.Now()),
		OldPhase: oldPhase.String(),
		NewPhase: newPhase.String(),
	})
}

// Func implements clock.Hook. It records every fired scheduled event.
func (r *SessionRecorder) Func(ctx clock.HookCtx) {
	if r.stopped || ctx.Pos != clock.HookPosAfterEventFire {
		return
	}

	evt, ok := ctx.Item.(clock.ScheduledEvent)
	if !ok {
		return
	}

	row := FiredEventRow{
		GameTime: float64(r.clk.Now()),
		EventID:  evt.ID,
	}

	switch evt.Trigger.Kind {
	case clock.TriggerAtDay:
		row.TriggerKind = "day"
		row.TriggerDay = evt.Trigger.Day
	default:
		row.TriggerKind = "time"
		row.TriggerTime = float64(evt.Trigger.Time)
	}

	r.recorder.InsertData(FiredEventTable, row)
}

// Stop detaches the recorder from the clock's notifications and flushes
// buffered rows. Event-fire hooks stay registered but become no-ops.
func (r *SessionRecorder) Stop() {
	r.clk.UnsubscribeDayChanged(r.daySub)
	r.clk.UnsubscribePhaseChanged(r.phaseSub)
	r.stopped = true
	r.recorder.Flush()
}
