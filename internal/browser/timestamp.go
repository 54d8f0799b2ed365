package browser

import (
	"math"
	"time"
)

// Epoch offsets in seconds relative to the Unix epoch.
const (
	// windowsEpochOffset is the span between 1601-01-01 and 1970-01-01.
	windowsEpochOffset = 11644473600
	// cocoaEpochOffset is the span between 1970-01-01 and 2001-01-01.
	cocoaEpochOffset = 978307200
)

// ToUnix converts a browser-native timestamp to Unix epoch seconds.
//
//	Chrome:  microseconds since 1601-01-01
//	IE11:    100ns ticks since 1601-01-01
//	Safari:  seconds since 2001-01-01
//	Firefox: microseconds since 1970-01-01
//
// An unrecognized browser falls back to treating the raw value as Unix
// seconds already.
func (b Browser) ToUnix(raw float64) float64 {
	switch b {
	case Chrome:
		return raw/1e6 - windowsEpochOffset
	case IE11:
		return raw/1e7 - windowsEpochOffset
	case Safari:
		return raw + cocoaEpochOffset
	case Firefox:
		return raw / 1e6
	default:
		return raw
	}
}

// Time converts a browser-native timestamp to a time.Time in UTC.
func (b Browser) Time(raw float64) time.Time {
	unix := b.ToUnix(raw)
	sec, frac := math.Modf(unix)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
