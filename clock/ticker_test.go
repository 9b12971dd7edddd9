package clock

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tick Broadcaster", func() {
	var (
		logBuf *bytes.Buffer
		c      *Clock
		ticks  int
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		c = New(Config{
			TickRate:      10,
			SecondsPerDay: 1e9,
			Logger:        log.New(logBuf, "", 0),
		})

		ticks = 0
		c.SubscribeTick(func() { ticks++ })
	})

	It("should emit exactly 5 ticks for 0.5 seconds at 10 Hz", func() {
		Expect(c.Advance(0.5)).To(Succeed())

		Expect(ticks).To(Equal(5))
		Expect(float64(c.ticker.accumulator)).To(
			BeNumerically("~", 0, 1e-9))
	})

	It("should carry the fractional remainder across frames", func() {
		Expect(c.Advance(0.049)).To(Succeed())
		Expect(ticks).To(Equal(0))

		Expect(c.Advance(0.051)).To(Succeed())
		Expect(ticks).To(Equal(1))
	})

	It("should emit many ticks on a single long frame", func() {
		Expect(c.Advance(2.0)).To(Succeed())

		Expect(ticks).To(Equal(20))
	})

	It("should freeze the accumulator while paused", func() {
		Expect(c.Advance(0.05)).To(Succeed())
		Expect(ticks).To(Equal(0))

		c.Pause()
		Expect(c.Advance(10)).To(Succeed())
		Expect(ticks).To(Equal(0))

		c.Resume()
		Expect(c.Advance(0.05)).To(Succeed())
		Expect(ticks).To(Equal(1))
	})

	It("should scale tick emission with the speed multiplier", func() {
		c.SetSpeed(2.0)

		Expect(c.Advance(0.5)).To(Succeed())

		Expect(ticks).To(Equal(10))
	})

	It("should isolate a panicking subscriber", func() {
		c.SubscribeTick(func() { panic("boom") })

		second := 0
		c.SubscribeTick(func() { second++ })

		Expect(c.Advance(0.2)).To(Succeed())

		Expect(ticks).To(Equal(2))
		Expect(second).To(Equal(2))
		Expect(logBuf.String()).To(ContainSubstring("tick subscriber panicked"))
	})

	It("should stop delivering to unsubscribed handlers", func() {
		id := c.SubscribeTick(func() { ticks += 100 })

		Expect(c.UnsubscribeTick(id)).To(BeTrue())
		Expect(c.UnsubscribeTick(id)).To(BeFalse())

		Expect(c.Advance(0.1)).To(Succeed())
		Expect(ticks).To(Equal(1))
	})
})
