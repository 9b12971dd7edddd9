package clock

import (
	"bytes"
	"log"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Speed Controller", func() {
	var (
		logBuf *bytes.Buffer
		c      *Clock
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		c = New(Config{Logger: log.New(logBuf, "", 0)})
	})

	It("should default to speed 1", func() {
		Expect(c.Speed()).To(Equal(float32(1.0)))
	})

	It("should clamp speed above the maximum", func() {
		Expect(c.SetSpeed(20)).To(Equal(MaxSpeed))
		Expect(c.Speed()).To(Equal(MaxSpeed))
	})

	It("should clamp speed below the minimum", func() {
		Expect(c.SetSpeed(-3)).To(Equal(MinSpeed))
		Expect(c.Speed()).To(Equal(MinSpeed))
	})

	It("should fall back to the default speed on NaN", func() {
		applied := c.SetSpeed(float32(math.NaN()))

		Expect(applied).To(Equal(DefaultSpeed))
		Expect(c.Speed()).To(Equal(DefaultSpeed))
		Expect(logBuf.String()).To(ContainSubstring("invalid time speed"))
	})

	It("should fall back to the default speed on infinity", func() {
		applied := c.SetSpeed(float32(math.Inf(1)))

		Expect(applied).To(Equal(DefaultSpeed))
		Expect(logBuf.String()).To(ContainSubstring("invalid time speed"))
	})

	It("should notify only when the applied speed changes", func() {
		changes := 0
		c.SubscribeSpeedChanged(func(oldSpeed, newSpeed float32) {
			changes++
			Expect(oldSpeed).To(Equal(float32(1.0)))
			Expect(newSpeed).To(Equal(float32(2.0)))
		})

		c.SetSpeed(2.0)
		c.SetSpeed(2.0)

		Expect(changes).To(Equal(1))
	})

	It("should not notify when clamping lands on the current speed", func() {
		c.SetSpeed(10)

		changes := 0
		c.SubscribeSpeedChanged(func(_, _ float32) { changes++ })

		c.SetSpeed(25)

		Expect(changes).To(Equal(0))
	})

	It("should preserve speed across pause and resume", func() {
		c.SetSpeed(3.5)

		c.Pause()
		Expect(c.IsPaused()).To(BeTrue())
		Expect(c.Speed()).To(Equal(float32(3.5)))

		c.Resume()
		Expect(c.IsPaused()).To(BeFalse())
		Expect(c.Speed()).To(Equal(float32(3.5)))
	})

	It("should toggle pause", func() {
		Expect(c.TogglePause()).To(BeTrue())
		Expect(c.TogglePause()).To(BeFalse())
	})
})
