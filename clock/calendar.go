package clock

import "math"

// Calendar constants. The year has 365 days: eleven 30-day months followed
// by a 35-day December.
const (
	DaysPerYear    = 365
	MonthsPerYear  = 12
	daysPerMonth   = 30
	decemberLength = DaysPerYear - (MonthsPerYear-1)*daysPerMonth
)

// Seasonal phase boundaries, in day-of-year.
const (
	productionStartDay    = 90
	preChristmasStartDay  = 270
	christmasRushStartDay = 330
)

// Phase is one of the four named day-ranges within the year that drive
// gameplay pacing.
type Phase int

// The phases of the year, in calendar order.
const (
	PhaseEarlyYear Phase = iota
	PhaseProduction
	PhasePreChristmas
	PhaseChristmasRush
)

func (p Phase) String() string {
	switch p {
	case PhaseEarlyYear:
		return "EarlyYear"
	case PhaseProduction:
		return "Production"
	case PhasePreChristmas:
		return "PreChristmas"
	case PhaseChristmasRush:
		return "ChristmasRush"
	default:
		return "Unknown"
	}
}

// DayOfYear converts accumulated game time into a day in [1, DaysPerYear].
// Day 366 wraps back to day 1.
func DayOfYear(t GameTimeInSec, secondsPerDay float64) int {
	return int(elapsedDays(t, secondsPerDay)%DaysPerYear) + 1
}

// YearsCompleted returns how many full 365-day years the accumulated game
// time spans.
func YearsCompleted(t GameTimeInSec, secondsPerDay float64) int {
	return int(elapsedDays(t, secondsPerDay) / DaysPerYear)
}

func elapsedDays(t GameTimeInSec, secondsPerDay float64) int64 {
	if t < 0 || math.IsNaN(float64(t)) {
		return 0
	}

	return int64(math.Floor(float64(t) / secondsPerDay))
}

// MonthOfDay converts a day of the year into its month and day-of-month.
// Months 1 through 11 have 30 days; December covers days 331 to 365.
func MonthOfDay(day int) (month, dayOfMonth int) {
	if day < 1 {
		day = 1
	}
	if day > DaysPerYear {
		day = DaysPerYear
	}

	month = (day-1)/daysPerMonth + 1
	if month > MonthsPerYear {
		month = MonthsPerYear
	}

	dayOfMonth = day - (month-1)*daysPerMonth

	return month, dayOfMonth
}

// PhaseOfDay returns the seasonal phase that contains the given day. The
// phase is a monotonic step function of the day within one year.
func PhaseOfDay(day int) Phase {
	switch {
	case day >= christmasRushStartDay:
		return PhaseChristmasRush
	case day >= preChristmasStartDay:
		return PhasePreChristmas
	case day >= productionStartDay:
		return PhaseProduction
	default:
		return PhaseEarlyYear
	}
}

// DayStartTime returns the game time at which the given day of the current
// year begins. It is the effective trigger time for day-scheduled events.
func DayStartTime(day int, secondsPerDay float64) GameTimeInSec {
	return GameTimeInSec(float64(day-1) * secondsPerDay)
}
