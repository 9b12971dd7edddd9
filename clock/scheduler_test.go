package clock

import (
	"bytes"
	"errors"
	"log"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recorder collects callback firings so tests can assert order.
type firingRecorder struct {
	fired []string
}

func (r *firingRecorder) callback(name string) Callback {
	return CallbackFunc(func(_ GameTimeInSec) error {
		r.fired = append(r.fired, name)
		return nil
	})
}

var _ = Describe("Event Scheduler", func() {
	var (
		logBuf   *bytes.Buffer
		c        *Clock
		recorder *firingRecorder
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		c = New(Config{
			TickRate:      10,
			SecondsPerDay: 100,
			Logger:        log.New(logBuf, "", 0),
		})
		recorder = &firingRecorder{}
	})

	It("should fire after exactly the scheduled delay", func() {
		h := c.ScheduleEvent(1.0, recorder.callback("a"))
		Expect(h.IsValid()).To(BeTrue())

		Expect(c.Advance(0.9)).To(Succeed())
		Expect(recorder.fired).To(BeEmpty())

		Expect(c.Advance(0.1)).To(Succeed())
		Expect(recorder.fired).To(Equal([]string{"a"}))
		Expect(h.IsValid()).To(BeFalse())
	})

	It("should not fire short of the delay by more than the epsilon", func() {
		c.ScheduleEvent(1.0, recorder.callback("a"))

		Expect(c.Advance(1.0 - 0.001)).To(Succeed())

		Expect(recorder.fired).To(BeEmpty())
	})

	It("should fire an event only once", func() {
		c.ScheduleEvent(1.0, recorder.callback("a"))

		Expect(c.Advance(1.0)).To(Succeed())
		Expect(c.Advance(1.0)).To(Succeed())

		Expect(recorder.fired).To(Equal([]string{"a"}))
	})

	It("should fire simultaneous events in scheduling order", func() {
		c.ScheduleEvent(1.0, recorder.callback("first"))
		c.ScheduleEvent(1.0, recorder.callback("second"))
		c.ScheduleEvent(1.0, recorder.callback("third"))

		Expect(c.Advance(1.0)).To(Succeed())

		Expect(recorder.fired).To(Equal([]string{"first", "second", "third"}))
	})

	It("should order mixed triggers by effective game time", func() {
		// Day 2 starts at game time 100.
		c.ScheduleEvent(150, recorder.callback("t150"))
		c.ScheduleEventAtDay(2, recorder.callback("day2"))
		c.ScheduleEvent(50, recorder.callback("t50"))

		Expect(c.Advance(250)).To(Succeed())

		Expect(recorder.fired).To(Equal([]string{"t50", "day2", "t150"}))
	})

	It("should fire a day event on the first frame at or past its day", func() {
		c.ScheduleEventAtDay(3, recorder.callback("day3"))

		Expect(c.Advance(199)).To(Succeed())
		Expect(recorder.fired).To(BeEmpty())

		Expect(c.Advance(1)).To(Succeed())
		Expect(recorder.fired).To(Equal([]string{"day3"}))
	})

	It("should fire a past-day event on the very next pass", func() {
		Expect(c.Advance(250)).To(Succeed())
		Expect(c.Day()).To(Equal(3))

		c.ScheduleEventAtDay(2, recorder.callback("late"))

		Expect(c.Advance(0)).To(Succeed())
		Expect(recorder.fired).To(Equal([]string{"late"}))
	})

	It("should cancel idempotently", func() {
		h := c.ScheduleEvent(1.0, recorder.callback("a"))

		Expect(c.CancelScheduledEvent(h)).To(BeTrue())
		Expect(c.CancelScheduledEvent(h)).To(BeFalse())

		Expect(c.Advance(2.0)).To(Succeed())
		Expect(recorder.fired).To(BeEmpty())
	})

	It("should not fire an event cancelled by an earlier callback "+
		"in the same pass", func() {
		var victim Handle

		c.ScheduleEvent(1.0, CallbackFunc(func(_ GameTimeInSec) error {
			Expect(c.CancelScheduledEvent(victim)).To(BeTrue())
			return nil
		}))
		victim = c.ScheduleEvent(1.0, recorder.callback("victim"))

		Expect(c.Advance(1.0)).To(Succeed())

		Expect(recorder.fired).To(BeEmpty())
		Expect(victim.IsValid()).To(BeFalse())
	})

	It("should return false when cancelling a fired event", func() {
		h := c.ScheduleEvent(1.0, recorder.callback("a"))

		Expect(c.Advance(1.0)).To(Succeed())

		Expect(c.CancelScheduledEvent(h)).To(BeFalse())
	})

	It("should reject a nil callback", func() {
		h := c.ScheduleEvent(1.0, nil)

		Expect(h.IsValid()).To(BeFalse())
		Expect(logBuf.String()).To(ContainSubstring("nil callback"))
	})

	It("should reject a negative delay", func() {
		h := c.ScheduleEvent(-1.0, recorder.callback("a"))

		Expect(h.IsValid()).To(BeFalse())
		Expect(logBuf.String()).To(ContainSubstring("invalid delay"))
	})

	It("should reject a non-finite delay", func() {
		h := c.ScheduleEvent(GameTimeInSec(math.NaN()), recorder.callback("a"))

		Expect(h.IsValid()).To(BeFalse())
	})

	It("should reject a day below 1", func() {
		h := c.ScheduleEventAtDay(0, recorder.callback("a"))

		Expect(h.IsValid()).To(BeFalse())
		Expect(logBuf.String()).To(ContainSubstring("invalid day"))
	})

	It("should report pending events", func() {
		h1 := c.ScheduleEvent(1.0, recorder.callback("a"))
		h2 := c.ScheduleEventAtDay(5, recorder.callback("b"))

		Expect(c.PendingEventCount()).To(Equal(2))
		Expect(c.HasEvent(h1.ID())).To(BeTrue())
		Expect(c.HasEvent(h2.ID())).To(BeTrue())

		pending := c.PendingEvents()
		Expect(pending).To(HaveLen(2))
		Expect(pending[0].ID).To(Equal(h1.ID()))
		Expect(pending[1].ID).To(Equal(h2.ID()))
	})

	It("should isolate callback errors", func() {
		c.ScheduleEvent(1.0, CallbackFunc(func(_ GameTimeInSec) error {
			return errors.New("broken")
		}))
		c.ScheduleEvent(1.0, recorder.callback("survivor"))

		Expect(c.Advance(1.0)).To(Succeed())

		Expect(recorder.fired).To(Equal([]string{"survivor"}))
		Expect(logBuf.String()).To(ContainSubstring("callback failed"))
	})

	It("should isolate callback panics", func() {
		c.ScheduleEvent(1.0, CallbackFunc(func(_ GameTimeInSec) error {
			panic("kaboom")
		}))
		c.ScheduleEvent(1.0, recorder.callback("survivor"))

		Expect(c.Advance(1.0)).To(Succeed())

		Expect(recorder.fired).To(Equal([]string{"survivor"}))
		Expect(logBuf.String()).To(ContainSubstring("callback panicked"))
	})
})

var _ = Describe("Event Scheduler with a firing cap", func() {
	var (
		c        *Clock
		recorder *firingRecorder
	)

	BeforeEach(func() {
		c = New(Config{
			SecondsPerDay:      100,
			MaxFiringsPerFrame: 10,
			Logger:             log.New(&bytes.Buffer{}, "", 0),
		})
		recorder = &firingRecorder{}
	})

	It("should defer events beyond the cap to later frames", func() {
		for i := 0; i < 25; i++ {
			c.ScheduleEvent(1.0, recorder.callback("evt"))
		}

		Expect(c.Advance(1.0)).To(Succeed())
		Expect(recorder.fired).To(HaveLen(10))
		Expect(c.PendingEventCount()).To(Equal(15))

		Expect(c.Advance(0)).To(Succeed())
		Expect(recorder.fired).To(HaveLen(20))

		Expect(c.Advance(0)).To(Succeed())
		Expect(recorder.fired).To(HaveLen(25))
		Expect(c.PendingEventCount()).To(Equal(0))
	})

	It("should keep priority order across capped frames", func() {
		first := &firingRecorder{}

		for i := 0; i < 10; i++ {
			c.ScheduleEvent(2.0, first.callback("late"))
		}
		c.ScheduleEvent(1.0, first.callback("early"))

		Expect(c.Advance(2.0)).To(Succeed())

		Expect(first.fired[0]).To(Equal("early"))
	})
})
