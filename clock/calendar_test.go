package clock

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Calendar", func() {
	const secondsPerDay = 1200.0

	It("should start on day 1", func() {
		Expect(DayOfYear(0, secondsPerDay)).To(Equal(1))
	})

	It("should enter day 2 after one day of game time", func() {
		Expect(DayOfYear(1199.9, secondsPerDay)).To(Equal(1))
		Expect(DayOfYear(1200, secondsPerDay)).To(Equal(2))
	})

	It("should reach day 365 on the last day of the year", func() {
		Expect(DayOfYear(364*secondsPerDay, secondsPerDay)).To(Equal(365))
	})

	It("should wrap day 366 to day 1", func() {
		Expect(DayOfYear(365*secondsPerDay, secondsPerDay)).To(Equal(1))
	})

	It("should count completed years", func() {
		Expect(YearsCompleted(364*secondsPerDay, secondsPerDay)).To(Equal(0))
		Expect(YearsCompleted(365*secondsPerDay, secondsPerDay)).To(Equal(1))
		Expect(YearsCompleted(731*secondsPerDay, secondsPerDay)).To(Equal(2))
	})

	It("should place days 1 to 30 in month 1", func() {
		month, dayOfMonth := MonthOfDay(1)
		Expect(month).To(Equal(1))
		Expect(dayOfMonth).To(Equal(1))

		month, dayOfMonth = MonthOfDay(30)
		Expect(month).To(Equal(1))
		Expect(dayOfMonth).To(Equal(30))
	})

	It("should roll into month 2 on day 31", func() {
		month, dayOfMonth := MonthOfDay(31)
		Expect(month).To(Equal(2))
		Expect(dayOfMonth).To(Equal(1))
	})

	It("should end month 11 on day 330", func() {
		month, dayOfMonth := MonthOfDay(330)
		Expect(month).To(Equal(11))
		Expect(dayOfMonth).To(Equal(30))
	})

	It("should start the 35-day December on day 331", func() {
		month, dayOfMonth := MonthOfDay(331)
		Expect(month).To(Equal(12))
		Expect(dayOfMonth).To(Equal(1))

		month, dayOfMonth = MonthOfDay(365)
		Expect(month).To(Equal(12))
		Expect(dayOfMonth).To(Equal(35))
	})

	It("should step through the phases at the day boundaries", func() {
		Expect(PhaseOfDay(1)).To(Equal(PhaseEarlyYear))
		Expect(PhaseOfDay(89)).To(Equal(PhaseEarlyYear))
		Expect(PhaseOfDay(90)).To(Equal(PhaseProduction))
		Expect(PhaseOfDay(269)).To(Equal(PhaseProduction))
		Expect(PhaseOfDay(270)).To(Equal(PhasePreChristmas))
		Expect(PhaseOfDay(329)).To(Equal(PhasePreChristmas))
		Expect(PhaseOfDay(330)).To(Equal(PhaseChristmasRush))
		Expect(PhaseOfDay(365)).To(Equal(PhaseChristmasRush))
	})

	It("should name the phases", func() {
		Expect(PhaseEarlyYear.String()).To(Equal("EarlyYear"))
		Expect(PhaseProduction.String()).To(Equal("Production"))
		Expect(PhasePreChristmas.String()).To(Equal("PreChristmas"))
		Expect(PhaseChristmasRush.String()).To(Equal("ChristmasRush"))
	})
})

var _ = Describe("TickRate", func() {
	It("should get the tick interval", func() {
		Expect(TickRate(10).Interval()).To(BeNumerically("~", 0.1, 1e-12))
	})
})
