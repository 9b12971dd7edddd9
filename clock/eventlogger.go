package clock

import "log"

// EventLogger is a hook that prints every fired scheduled event.
type EventLogger struct {
	Logger *log.Logger
}

// NewEventLogger returns a hook that writes fired events to the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEventFire {
		return
	}

	evt, ok := ctx.Item.(ScheduledEvent)
	if !ok {
		return
	}

	switch evt.Trigger.Kind {
	case TriggerAtDay:
		h.Logger.Printf("event %d fired, day trigger %d",
			evt.ID, evt.Trigger.Day)
	default:
		h.Logger.Printf("event %d fired, time trigger %.10f",
			evt.ID, evt.Trigger.Time)
	}
}
