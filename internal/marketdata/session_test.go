package marketdata

import (
	"math"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	// Tuesday 2026-03-03, a regular trading day.
	return time.Date(2026, time.March, 3, h, m, 0, 0, Eastern)
}

func TestBarWindowHelpers(t *testing.T) {
	if !IsOpeningRangeBar(at(9, 30)) {
		t.Fatalf("09:30 should be the opening-range bar")
	}
	if IsOpeningRangeBar(at(9, 45)) {
		t.Fatalf("09:45 is not the opening-range bar")
	}
	if AfterOpeningRange(at(9, 30)) {
		t.Fatalf("09:30 is inside the opening range")
	}
	if !AfterOpeningRange(at(9, 45)) || !AfterOpeningRange(at(10, 0)) {
		t.Fatalf("bars at/after 09:45 are post-range")
	}
	if !WithinTradableWindow(at(15, 45)) {
		t.Fatalf("15:45 is the last tradable bar")
	}
	if WithinTradableWindow(at(16, 0)) {
		t.Fatalf("16:00 is past the tradable window")
	}
}

func TestInScanWindow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "pre-open", now: at(9, 24), want: false},
		{name: "gate opens 09:25", now: at(9, 25), want: true},
		{name: "mid-session", now: at(12, 0), want: true},
		{name: "after 16:30", now: at(16, 30), want: false},
		{name: "weekend", now: time.Date(2026, time.March, 7, 12, 0, 0, 0, Eastern), want: false},
		{name: "holiday", now: time.Date(2026, time.January, 19, 12, 0, 0, 0, Eastern), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InScanWindow(tc.now); got != tc.want {
				t.Fatalf("InScanWindow(%s) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestRangeComplete(t *testing.T) {
	if RangeComplete(at(9, 44)) {
		t.Fatalf("range not complete before 09:45")
	}
	if !RangeComplete(at(9, 45)) {
		t.Fatalf("range complete at 09:45")
	}
}

func TestYearsToSessionClose(t *testing.T) {
	// 15:00 leaves 60 minutes of session.
	got := YearsToSessionClose(at(15, 0))
	want := 60.0 / (365 * SessionMinutes)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}

	// Past the close it floors at one minute, never zero or negative.
	if got := YearsToSessionClose(at(17, 0)); got != 1.0/(365*SessionMinutes) {
		t.Fatalf("expected one-minute floor, got %v", got)
	}
}
