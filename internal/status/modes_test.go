// internal/status/modes_test.go
package status

import (
	"errors"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	cases := map[string]OperationalMode{
		"disabled":   ModeDisabled,
		"Tractor":    ModeTractor,
		"balanced":   ModeBalanced,
		"power-down": ModePowerDown,
		"power_down": ModePowerDown,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("fast"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseGainSchedule(t *testing.T) {
	for _, g := range []GainSchedule{GainLight, GainTall, GainHeavy} {
		got, err := ParseGainSchedule(g.String())
		if err != nil || got != g {
			t.Fatalf("ParseGainSchedule(%q) = %v, %v", g.String(), got, err)
		}
	}
	if _, err := ParseGainSchedule("medium"); err == nil {
		t.Fatalf("expected error for unknown schedule")
	}
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{"50": RMP50, "rmp100": RMP100, "RMP200": RMP200, " 400 ": RMP400} {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Fatalf("ParseVariant(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "300", "200x", "rmp"} {
		if _, err := ParseVariant(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	if RMP400.Scale() != RMP200.Scale() {
		t.Fatalf("RMP400 must share the RMP200 constants")
	}
	if RMP50.Scale().MPS != 401 {
		t.Fatalf("unexpected RMP50 scale: %+v", RMP50.Scale())
	}
}

func TestDefaultClock(t *testing.T) {
	defer func() { now = time.Now }()

	now = func() time.Time { return time.Unix(1700000000, 5) }
	ts, err := DefaultClock()
	if err != nil || ts.Sec != 1700000000 || ts.Nsec != 5 {
		t.Fatalf("unexpected clock result %+v, %v", ts, err)
	}

	now = func() time.Time { return time.Unix(0, 0) }
	if _, err := DefaultClock(); !errors.Is(err, ErrClockUnavailable) {
		t.Fatalf("expected ErrClockUnavailable, got %v", err)
	}
}
