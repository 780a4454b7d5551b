package primitives

import "testing"

func TestParseDurationUnits(t *testing.T) {
	cases := []struct {
		in   string
		secs int64
		neg  bool
	}{
		{"1s", 1, false},
		{"30sec", 30, false},
		{"5mins", 300, false},
		{"2h", 7200, false},
		{"3d", 259200, false},
		{"1w", 604800, false},
		{"1wk", 604800, false},
		{"sennight", 604800, false},
		{"fortnight", 1209600, false},
		{"1mo", 2592000, false},
		{"monthly", 2592000, false},
		{"quarterly", 7862400, false},
		{"semiannual", 15811200, false},
		{"1y", 31536000, false},
		{"biannual", 63072000, false},
		{"biyearly", 63072000, false},
		{"-3d", 259200, true},
		{"-", 0, false},
	}
	for _, c := range cases {
		d, err := ParseDuration(c.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q) error: %v", c.in, err)
		}
		if d.Seconds != c.secs || d.Negative != c.neg {
			t.Fatalf("ParseDuration(%q) = {%d,%v}, want {%d,%v}", c.in, d.Seconds, d.Negative, c.secs, c.neg)
		}
	}
}

func TestParseDurationUnknownUnitFails(t *testing.T) {
	if _, err := ParseDuration("3zzz"); err == nil {
		t.Fatalf("expected error for unknown unit")
	}
}

func TestParseDurationAmbiguousPrefixFails(t *testing.T) {
	// "mo" and "month" are both exact entries so "mo" itself resolves
	// exactly, but a genuinely ambiguous fragment should fail.
	if _, err := ParseDuration("3da"); err == nil {
		t.Fatalf("expected error for ambiguous/unknown fragment")
	}
}

func TestParseDurationValue(t *testing.T) {
	d, err := ParseDuration("-2h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value() != -7200 {
		t.Fatalf("unexpected signed value: %d", d.Value())
	}
}

func TestDurationFormat(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{45, "45 secs"},
		{90, "1 min"},
		{7200, "2 hrs"},
		{86400, "1 day"},
		{86400 * 20, "2 wks"},
		{86400 * 100, "3 mths"},
		{86400 * 400, "1.1 yrs"},
	}
	for _, c := range cases {
		d := Duration{Seconds: c.secs}
		if got := d.Format(); got != c.want {
			t.Fatalf("Format(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}
