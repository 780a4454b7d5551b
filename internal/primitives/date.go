package primitives

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date wraps an epoch-seconds instant. All arithmetic operates on whole
// seconds; the local system timezone is consulted at call time for any
// calendar-aware operation (day-of-week, start-of-month, etc).
type Date struct {
	Epoch int64
}

// Now returns the current instant as a Date.
func Now() Date { return Date{Epoch: time.Now().Unix()} }

// FromTime converts a time.Time to a Date.
func FromTime(t time.Time) Date { return Date{Epoch: t.Unix()} }

// Time returns the local time.Time for this Date.
func (d Date) Time() time.Time { return time.Unix(d.Epoch, 0) }

// Add returns a new Date offset by secs seconds.
func (d Date) Add(secs int64) Date { return Date{Epoch: d.Epoch + secs} }

// Sub returns the number of seconds between d and other (d - other).
func (d Date) Sub(other Date) int64 { return d.Epoch - other.Epoch }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Epoch < other.Epoch }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Epoch > other.Epoch }

// Equal reports whether d and other are the same instant.
func (d Date) Equal(other Date) bool { return d.Epoch == other.Epoch }

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// explicitFormats are accepted by ParseDate in addition to the relative
// keywords and ISO-8601.
var explicitFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate parses a date expression: an explicit m/d/Y or ISO-8601 date,
// or one of Taskwarrior's relative keywords (today, tomorrow, yesterday,
// now, eod, eow, eom, eoy, som, soy, or a weekday name). now anchors
// "today"-relative keywords.
func ParseDate(input string, now Date) (Date, error) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "now":
		return now, nil
	case "today":
		return now.StartOfDay(), nil
	case "tomorrow":
		return now.StartOfDay().Add(86400), nil
	case "yesterday":
		return now.StartOfDay().Add(-86400), nil
	case "eod":
		return now.StartOfDay().Add(86400 - 1), nil
	case "eow":
		return endOfWeek(now), nil
	case "eom":
		return endOfMonth(now), nil
	case "eoy":
		return endOfYear(now), nil
	case "som":
		return startOfMonth(now), nil
	case "soy":
		return startOfYear(now), nil
	}

	if wd, ok := weekdayNames[lower]; ok {
		return nextWeekday(now, wd), nil
	}

	for _, layout := range explicitFormats {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return FromTime(t), nil
		}
	}

	if epoch, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Date{Epoch: epoch}, nil
	}

	return Date{}, fmt.Errorf("%q is not a valid date", input)
}

// StartOfDay returns midnight (local time) of the day containing d.
func (d Date) StartOfDay() Date {
	t := d.Time()
	return FromTime(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
}

// StartOfMonth returns the first instant of d's month.
func (d Date) StartOfMonth() Date { return startOfMonth(d) }

// StartOfYear returns the first instant of d's year.
func (d Date) StartOfYear() Date { return startOfYear(d) }

func startOfMonth(d Date) Date {
	t := d.Time()
	return FromTime(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()))
}

func startOfYear(d Date) Date {
	t := d.Time()
	return FromTime(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()))
}

func endOfMonth(d Date) Date {
	t := startOfMonth(d).Time()
	next := t.AddDate(0, 1, 0)
	return FromTime(next.Add(-time.Second))
}

func endOfYear(d Date) Date {
	t := startOfYear(d).Time()
	next := t.AddDate(1, 0, 0)
	return FromTime(next.Add(-time.Second))
}

// endOfWeek returns 23:59:59 of the Saturday ending the week containing d
// (week starts Sunday), matching Taskwarrior's default weekstart.
func endOfWeek(d Date) Date {
	day := d.StartOfDay()
	wd := int(day.Time().Weekday())
	daysUntilSaturday := 6 - wd
	return day.Add(int64(daysUntilSaturday)*86400 + 86400 - 1)
}

func nextWeekday(from Date, wd time.Weekday) Date {
	day := from.StartOfDay()
	cur := int(day.Time().Weekday())
	delta := (int(wd) - cur + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return day.Add(int64(delta) * 86400)
}

// SameDay reports whether d and other fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	a, b := d.Time(), other.Time()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SameMonth reports whether d and other fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	a, b := d.Time(), other.Time()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameYear reports whether d and other fall in the same calendar year.
func (d Date) SameYear(other Date) bool {
	return d.Time().Year() == other.Time().Year()
}

// Year, Month, Day, Hour, Minute, Second return the local calendar
// components of d.
func (d Date) Year() int   { return d.Time().Year() }
func (d Date) Month() int  { return int(d.Time().Month()) }
func (d Date) Day() int    { return d.Time().Day() }
func (d Date) Hour() int   { return d.Time().Hour() }
func (d Date) Minute() int { return d.Time().Minute() }
func (d Date) Second() int { return d.Time().Second() }

// Weekday returns the local day of week (0 = Sunday).
func (d Date) Weekday() int { return int(d.Time().Weekday()) }

// WeekOfYear returns the ISO week number.
func (d Date) WeekOfYear() int {
	_, week := d.Time().ISOWeek()
	return week
}

// IsLeapYear reports whether d's calendar year is a leap year.
func (d Date) IsLeapYear() bool {
	y := d.Year()
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// AddMonths returns d shifted by n calendar months, clamping the day of
// month to the target month's maximum (e.g. Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	t := d.Time()
	day := t.Day()
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), 0, t.Location()).AddDate(0, n, 0)
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}
	return FromTime(time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), 0, t.Location()))
}

// AddYears returns d shifted by n calendar years, with the same clamping
// rule as AddMonths (for Feb 29 on non-leap target years).
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	last := firstOfNext.Add(-24 * time.Hour)
	return last.Day()
}

// Format renders d using an explicit layout (Go reference-time syntax).
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// String renders d in ISO-8601 date form.
func (d Date) String() string {
	return d.Time().Format("2006-01-02T15:04:05")
}
