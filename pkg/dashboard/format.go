package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the display layout of device timestamps, always UTC
const TimestampLayout = "2006-01-02 15:04:05.000"

var resetReasons = []string{
	"Unknown",
	"Power on",
	"PIN reset",
	"Reboot",
	"Exception/Panic reset",
	"Interrupt WD",
	"Task WD",
	"Other WD",
	"Deepsleep",
	"Brownout",
	"SDIO reset",
	"USB reset",
	"JTAG reset",
}

var otaStatuses = map[int64]string{
	-3: "Update available",
	-2: "No update profile",
	-1: "No update available",
	0:  "Ok",
	1:  "Network error (HTTP)",
	2:  "Write error",
	3:  "Profile error",
	4:  "Profile Failed",
}

var cloudCoverages = []string{"Clear", "Cloudy", "Overcast"}

// FormatUptime breaks seconds down into days, hours, minutes and seconds.
// A unit takes its plural form only when its count is greater than one.
func FormatUptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	parts := []string{
		unit(days, "day"),
		unit(hours, "hour"),
		unit(minutes, "minute"),
		unit(secs, "second"),
	}
	return strings.Join(parts, " ")
}

func unit(n int64, name string) string {
	if n > 1 {
		name += "s"
	}
	return fmt.Sprintf("%d %s", n, name)
}

// ResetReason maps the firmware reset reason code, out of range codes are Unknown
func ResetReason(code int64) string {
	if code < 0 || code >= int64(len(resetReasons)) {
		return resetReasons[0]
	}
	return resetReasons[code]
}

// OTAStatus maps the result code of the last OTA check
func OTAStatus(code int64) string {
	if s, ok := otaStatuses[code]; ok {
		return s
	}
	return "Unknown"
}

// CloudCoverage maps the cloud coverage classification
func CloudCoverage(code int64) string {
	if code < 0 || code >= int64(len(cloudCoverages)) {
		return "Unknown"
	}
	return cloudCoverages[code]
}

// Reading formats an environmental reading with two decimals
func Reading(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// SoundLevel rounds a sound level to whole decibels
func SoundLevel(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// Timestamp formats a device time
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// YesNo renders a flag
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
