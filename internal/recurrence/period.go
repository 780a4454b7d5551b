// Package recurrence implements the recurring-parent materialization
// engine: converting a recur/due/until/mask parent into concrete pending
// child instances over time (spec.md §4.5).
package recurrence

import (
	"strings"

	"tasklet/internal/primitives"
)

// Period is the sum type from DESIGN.md's "Recurrence calendar
// arithmetic" note: calendar periods (months, years) step by calendar
// arithmetic with day-of-month clamping, never by a fixed second count,
// while everything else is a fixed-duration step.
type Period struct {
	Seconds int64
	Months  int
	Years   int
}

// calendarMonthUnits maps a recur-string unit to the number of calendar
// months one occurrence represents. "m" is treated as months here per
// spec.md §4.5, even though internal/primitives.Duration treats a bare "m"
// as minutes — the two parsers serve different grammars.
var calendarMonthUnits = map[string]int{
	"monthly": 1, "month": 1, "months": 1, "mo": 1, "mos": 1, "m": 1,
	"bimonthly": 2,
	"quarterly": 3, "quarter": 3, "quarters": 3, "qtr": 3, "qtrs": 3, "qrtrs": 3, "q": 3,
	"semiannual": 6,
}

// calendarYearUnits maps a recur-string unit to the number of calendar
// years one occurrence represents.
var calendarYearUnits = map[string]int{
	"yearly": 1, "annual": 1, "annually": 1, "year": 1, "years": 1, "yrs": 1, "yr": 1, "y": 1,
	"biannual": 2, "biyearly": 2,
}

// ParsePeriod classifies a recur duration string into a calendar-stepping
// or fixed-seconds Period. The numeric prefix defaults to 1 when absent
// (e.g. "monthly" alone means 1 month).
func ParsePeriod(recur string) (Period, error) {
	lower := strings.ToLower(strings.TrimSpace(recur))

	n := primitives.NewNibbler(lower)
	n.SkipWS()
	value := 1
	if v, ok := n.ConsumeInt(); ok {
		value = v
	}
	n.SkipWS()
	unitText, _ := n.ConsumeUntilEOS()
	unitText = strings.TrimSpace(unitText)
	if unitText == "" {
		unitText = lower
	}

	if months, ok := calendarMonthUnits[unitText]; ok {
		return Period{Months: value * months}, nil
	}
	if years, ok := calendarYearUnits[unitText]; ok {
		return Period{Years: value * years}, nil
	}

	d, err := primitives.ParseDuration(recur)
	if err != nil {
		return Period{}, err
	}
	return Period{Seconds: d.Value()}, nil
}

// IsCalendar reports whether p steps by calendar arithmetic rather than a
// fixed second count.
func (p Period) IsCalendar() bool { return p.Months != 0 || p.Years != 0 }

// Step returns the next due date after from, per p's stepping rule.
func (p Period) Step(from primitives.Date) primitives.Date {
	switch {
	case p.Years != 0:
		return from.AddYears(p.Years)
	case p.Months != 0:
		return from.AddMonths(p.Months)
	default:
		return from.Add(p.Seconds)
	}
}
