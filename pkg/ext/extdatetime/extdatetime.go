// Package extdatetime provides date arithmetic over Unix timestamps in
// milliseconds. All calendar computations use UTC.
package extdatetime

import (
	"math"
	"time"

	"github.com/sandrolain/goparsec/pkg/ext/extutil"
	"github.com/sandrolain/goparsec/pkg/functions"
)

// now is replaced in tests.
var now = time.Now

// All returns all date/time function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		Now(),
		component("year", func(t time.Time) int { return t.Year() }),
		component("month", func(t time.Time) int { return int(t.Month()) }),
		component("day", func(t time.Time) int { return t.Day() }),
		component("hour", func(t time.Time) int { return t.Hour() }),
		component("minute", func(t time.Time) int { return t.Minute() }),
		component("weekday", func(t time.Time) int { return int(t.Weekday()) }), // 0=Sunday
		AddDays(),
		AddMonths(),
		AddYears(),
		DiffDays(),
		DiffMonths(),
		StartOfDay(),
		StartOfMonth(),
		EndOfMonth(),
	}
}

// Table returns All as a function table.
func Table() functions.Table {
	return extutil.Table(All()...)
}

// Now returns the definition for now(), the current time in milliseconds.
func Now() functions.CustomFunctionDef {
	return extutil.Def("now", 0, 0, func(...float64) (float64, error) {
		return timeToMs(now()), nil
	})
}

func component(name string, get func(time.Time) int) functions.CustomFunctionDef {
	return extutil.Unary(name, func(ms float64) float64 {
		return float64(get(msToTime(ms)))
	})
}

// AddDays returns the definition for addDays(millis, n).
func AddDays() functions.CustomFunctionDef {
	return addDate("addDays", func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) })
}

// AddMonths returns the definition for addMonths(millis, n). Overflowing
// days roll into the next month, as with time.Time.AddDate.
func AddMonths() functions.CustomFunctionDef {
	return addDate("addMonths", func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) })
}

// AddYears returns the definition for addYears(millis, n).
func AddYears() functions.CustomFunctionDef {
	return addDate("addYears", func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) })
}

func addDate(name string, add func(time.Time, int) time.Time) functions.CustomFunctionDef {
	return extutil.Def(name, 2, 2, func(args ...float64) (float64, error) {
		return timeToMs(add(msToTime(args[0]), int(args[1]))), nil
	})
}

// DiffDays returns the definition for diffDays(from, to), the number of
// whole days from from to to.
func DiffDays() functions.CustomFunctionDef {
	return extutil.Def("diffDays", 2, 2, func(args ...float64) (float64, error) {
		d := msToTime(args[1]).Sub(msToTime(args[0]))
		return math.Trunc(d.Hours() / 24), nil
	})
}

// DiffMonths returns the definition for diffMonths(from, to), the number
// of whole calendar months from from to to.
func DiffMonths() functions.CustomFunctionDef {
	return extutil.Def("diffMonths", 2, 2, func(args ...float64) (float64, error) {
		years, months := dateDiffYM(msToTime(args[0]), msToTime(args[1]))
		return float64(years*12 + months), nil
	})
}

// StartOfDay returns the definition for startOfDay(millis).
func StartOfDay() functions.CustomFunctionDef {
	return extutil.Unary("startOfDay", func(ms float64) float64 {
		t := msToTime(ms)
		return timeToMs(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	})
}

// StartOfMonth returns the definition for startOfMonth(millis).
func StartOfMonth() functions.CustomFunctionDef {
	return extutil.Unary("startOfMonth", func(ms float64) float64 {
		t := msToTime(ms)
		return timeToMs(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
	})
}

// EndOfMonth returns the definition for endOfMonth(millis), the last
// millisecond of the month.
func EndOfMonth() functions.CustomFunctionDef {
	return extutil.Unary("endOfMonth", func(ms float64) float64 {
		t := msToTime(ms)
		firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		return timeToMs(firstOfNext.Add(-time.Millisecond))
	})
}

func msToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

func timeToMs(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// dateDiffYM returns the difference in full years and months. A month only
// counts once its day of month has been reached.
func dateDiffYM(from, to time.Time) (years, months int) {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	years = y2 - y1
	months = int(m2) - int(m1)
	if d2 < d1 {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months
}
