package format

import (
	"testing"
	"time"
)

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"zero", 0, "now"},
		{"sub-minute", 45 * time.Second, "now"},
		{"minutes", 30 * time.Minute, "30m"},
		{"hours", 12 * time.Hour, "12h"},
		{"days", 3 * 24 * time.Hour, "3d"},
		{"weeks", 14 * 24 * time.Hour, "2w"},
		{"almost a month", 29 * 24 * time.Hour, "4w"},
		{"months", 90 * 24 * time.Hour, "3mo"},
		{"a year", 365 * 24 * time.Hour, "12mo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAge(tt.duration); got != tt.want {
				t.Errorf("FormatAge(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.725); got != "72%" {
		t.Errorf("FormatPercent(0.725) = %q, want %q", got, "72%")
	}
	if got := FormatPercent(1); got != "100%" {
		t.Errorf("FormatPercent(1) = %q, want %q", got, "100%")
	}
}
