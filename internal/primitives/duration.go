package primitives

import (
	"fmt"
	"strings"
)

// Duration is a signed span of time expressed in whole seconds, tracked
// with an explicit sign flag so zero-duration input ("-") round-trips the
// same way the legacy parser treats it.
type Duration struct {
	Seconds  int64
	Negative bool
}

// Value returns the signed number of seconds this duration represents.
func (d Duration) Value() int64 {
	if d.Negative {
		return -d.Seconds
	}
	return d.Seconds
}

// unitSeconds is the exact per-unit second count used by Taskwarrior's
// Duration::parse, including every documented alias.
var unitSeconds = map[string]int64{
	"biannual": 86400 * 730,
	"biyearly": 86400 * 730,

	"yearly": 86400 * 365,
	"annual": 86400 * 365,
	"years":  86400 * 365,
	"year":   86400 * 365,
	"yrs":    86400 * 365,
	"y":      86400 * 365,

	"semiannual": 86400 * 183,

	"bimonthly": 86400 * 61,
	"quarterly": 86400 * 91,
	"quarters":  86400 * 91,
	"qrtrs":     86400 * 91,
	"qtrs":      86400 * 91,
	"q":         86400 * 91,

	"monthly": 86400 * 30,
	"month":   86400 * 30,
	"months":  86400 * 30,
	"mnths":   86400 * 30,
	"mos":     86400 * 30,
	"mo":      86400 * 30,
	"mths":    86400 * 30,

	"biweekly":  86400 * 14,
	"fortnight": 86400 * 14,

	"weekly":   86400 * 7,
	"sennight": 86400 * 7,
	"weeks":    86400 * 7,
	"week":     86400 * 7,
	"wks":      86400 * 7,
	"wk":       86400 * 7,
	"w":        86400 * 7,

	"daily":    86400,
	"day":      86400,
	"weekdays": 86400,
	"days":     86400,
	"d":        86400,

	"hours": 3600,
	"hour":  3600,
	"hrs":   3600,
	"hr":    3600,
	"h":     3600,

	"minutes": 60,
	"minute":  60,
	"mins":    60,
	"min":     60,
	"m":       60,

	"seconds": 1,
	"second":  1,
	"secs":    1,
	"sec":     1,
	"s":       1,

	"-": 0,
}

// durationUnits is unitSeconds' key set, used for unique-prefix
// auto-completion the same way Taskwarrior's autoComplete() does.
var durationUnits = func() []string {
	out := make([]string, 0, len(unitSeconds))
	for k := range unitSeconds {
		out = append(out, k)
	}
	return out
}()

// autoCompleteUnit finds the unique duration unit of which candidate is an
// unambiguous prefix. An exact match always wins outright.
func autoCompleteUnit(candidate string) (string, error) {
	if candidate == "" {
		return "", fmt.Errorf("the duration unit %q was not recognized", candidate)
	}
	if _, ok := unitSeconds[candidate]; ok {
		return candidate, nil
	}
	var matches []string
	for _, u := range durationUnits {
		if strings.HasPrefix(u, candidate) {
			matches = append(matches, u)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("the duration unit %q was not recognized", candidate)
	default:
		return "", fmt.Errorf("the duration unit %q is ambiguous: matches %s", candidate, strings.Join(matches, ", "))
	}
}

// ParseDuration parses a "<number><unit>" string such as "3d", "2 weeks",
// "-1hr", or the bare "-" (which parses to zero). Unknown or ambiguous
// units fail.
func ParseDuration(input string) (Duration, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "-" {
		return Duration{}, nil
	}

	n := NewNibbler(lower)
	n.SkipWS()

	value := 1.0
	if v, ok := n.ConsumeFloat(); ok {
		value = v
	}
	n.SkipWS()

	negative := false
	if value < 0 {
		negative = true
		value = -value
	}

	unitText, _ := n.ConsumeUntilEOS()
	unitText = strings.TrimSpace(unitText)

	match, err := autoCompleteUnit(unitText)
	if err != nil {
		return Duration{}, fmt.Errorf("the duration %q was not recognized: %w", input, err)
	}

	secs := int64(value * float64(unitSeconds[match]))
	if secs == 0 && match != "-" {
		return Duration{}, fmt.Errorf("the duration %q was not recognized", input)
	}

	return Duration{Seconds: secs, Negative: negative}, nil
}

// Format renders the duration the way Taskwarrior's Duration::format does:
// the single coarsest unit that fits, e.g. "3 wks", "1 day", "45 secs".
func (d Duration) Format() string {
	sign := ""
	if d.Negative {
		sign = "-"
	}
	secs := d.Seconds
	days := float64(secs) / 86400.0

	unit := func(n int, singular string) string {
		if n == 1 {
			return fmt.Sprintf("%s%d %s", sign, n, singular)
		}
		return fmt.Sprintf("%s%d %ss", sign, n, singular)
	}

	switch {
	case secs >= 86400*365:
		return fmt.Sprintf("%s%.1f yrs", sign, days/365)
	case secs > 86400*84:
		return unit(int(days/30.6), "mth")
	case secs > 86400*13:
		return unit(int(days/7.0), "wk")
	case secs >= 86400:
		return unit(int(days), "day")
	case secs >= 3600:
		return unit(int(secs/3600), "hr")
	case secs >= 60:
		return unit(int(secs/60), "min")
	case secs >= 1:
		return unit(int(secs), "sec")
	default:
		return "-"
	}
}
