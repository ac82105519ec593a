package dashboard

import (
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		// units turn plural only above 1, so zero stays singular
		{0, "0 day 0 hour 0 minute 0 second"},
		{1, "0 day 0 hour 0 minute 1 second"},
		{2, "0 day 0 hour 0 minute 2 seconds"},
		{59, "0 day 0 hour 0 minute 59 seconds"},
		{61, "0 day 0 hour 1 minute 1 second"},
		{90061, "1 day 1 hour 1 minute 1 second"},
		{2*86400 + 2*3600 + 2*60 + 2, "2 days 2 hours 2 minutes 2 seconds"},
		{-5, "0 day 0 hour 0 minute 0 second"},
	}

	for _, tt := range tests {
		if got := FormatUptime(tt.seconds); got != tt.want {
			t.Errorf("FormatUptime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestOTAStatus(t *testing.T) {
	tests := []struct {
		code int64
		want string
	}{
		{-3, "Update available"},
		{-2, "No update profile"},
		{-1, "No update available"},
		{0, "Ok"},
		{1, "Network error (HTTP)"},
		{2, "Write error"},
		{3, "Profile error"},
		{4, "Profile Failed"},
		{99, "Unknown"},
		{-4, "Unknown"},
	}

	for _, tt := range tests {
		if got := OTAStatus(tt.code); got != tt.want {
			t.Errorf("OTAStatus(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestResetReason(t *testing.T) {
	tests := []struct {
		code int64
		want string
	}{
		{0, "Unknown"},
		{1, "Power on"},
		{3, "Reboot"},
		{9, "Brownout"},
		{12, "JTAG reset"},
		{13, "Unknown"},
		{-1, "Unknown"},
	}

	for _, tt := range tests {
		if got := ResetReason(tt.code); got != tt.want {
			t.Errorf("ResetReason(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCloudCoverage(t *testing.T) {
	for code, want := range map[int64]string{0: "Clear", 1: "Cloudy", 2: "Overcast", 3: "Unknown", -1: "Unknown"} {
		if got := CloudCoverage(code); got != want {
			t.Errorf("CloudCoverage(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestNumberFormats(t *testing.T) {
	if got := Reading(21.456); got != "21.46" {
		t.Errorf("Reading(21.456) = %q", got)
	}
	if got := Reading(-3); got != "-3.00" {
		t.Errorf("Reading(-3) = %q", got)
	}
	if got := SoundLevel(54.5); got != "55" {
		t.Errorf("SoundLevel(54.5) = %q", got)
	}
	if got := SoundLevel(-0.2); got != "0" {
		t.Errorf("SoundLevel(-0.2) = %q", got)
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 250000*int64(time.Microsecond))
	if got := Timestamp(ts); got != "2023-11-14 22:13:20.250" {
		t.Errorf("Timestamp = %q", got)
	}
}
