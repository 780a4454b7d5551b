package primitives

import "testing"

func TestParseDateRelativeKeywords(t *testing.T) {
	now, err := ParseDate("2024-01-15", Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today, err := ParseDate("today", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !today.SameDay(now) {
		t.Fatalf("today should be same day as anchor")
	}

	tomorrow, err := ParseDate("tomorrow", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tomorrow.Sub(today.StartOfDay()) != 86400 {
		t.Fatalf("tomorrow should be 24h after today")
	}

	yesterday, err := ParseDate("yesterday", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if today.StartOfDay().Sub(yesterday) != 86400 {
		t.Fatalf("yesterday should be 24h before today")
	}
}

func TestParseDateISO(t *testing.T) {
	d, err := ParseDate("2024-01-01", Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 1 {
		t.Fatalf("unexpected components: %d-%d-%d", d.Year(), d.Month(), d.Day())
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("not-a-date", Date{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	jan31, _ := ParseDate("2024-01-31", Date{})
	feb := jan31.AddMonths(1)
	if feb.Month() != 2 || feb.Day() != 29 {
		// 2024 is a leap year, so Feb has 29 days.
		t.Fatalf("expected clamp to Feb 29 2024, got %d-%d", feb.Month(), feb.Day())
	}
}

func TestAddYearsLeapDayClamps(t *testing.T) {
	leapDay, _ := ParseDate("2024-02-29", Date{})
	next := leapDay.AddYears(1)
	if next.Year() != 2025 || next.Month() != 2 || next.Day() != 28 {
		t.Fatalf("expected clamp to 2025-02-28, got %d-%d-%d", next.Year(), next.Month(), next.Day())
	}
}

func TestIsLeapYear(t *testing.T) {
	cases := map[string]bool{
		"2000-01-01": true,
		"1900-01-01": false,
		"2024-01-01": true,
		"2023-01-01": false,
	}
	for in, want := range cases {
		d, err := ParseDate(in, Date{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := d.IsLeapYear(); got != want {
			t.Fatalf("IsLeapYear(%s) = %v, want %v", in, got, want)
		}
	}
}

func TestSameMonthSameYear(t *testing.T) {
	a, _ := ParseDate("2024-03-05", Date{})
	b, _ := ParseDate("2024-03-20", Date{})
	c, _ := ParseDate("2024-04-01", Date{})
	if !a.SameMonth(b) {
		t.Fatalf("expected same month")
	}
	if a.SameMonth(c) {
		t.Fatalf("expected different month")
	}
	if !a.SameYear(c) {
		t.Fatalf("expected same year")
	}
}
