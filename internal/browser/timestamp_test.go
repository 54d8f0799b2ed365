package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// wallClock is a fixed instant used to round-trip every native encoding.
var wallClock = time.Date(2017, 7, 31, 14, 30, 45, 0, time.UTC)

func TestToUnix_Chrome(t *testing.T) {
	// Microseconds since 1601-01-01.
	native := float64(wallClock.Unix()+11644473600) * 1e6

	got := Chrome.ToUnix(native)
	assert.InDelta(t, float64(wallClock.Unix()), got, 1.0)
}

func TestToUnix_IE11(t *testing.T) {
	// 100ns ticks since 1601-01-01.
	native := float64(wallClock.Unix()+11644473600) * 1e7

	got := IE11.ToUnix(native)
	assert.InDelta(t, float64(wallClock.Unix()), got, 1.0)
}

func TestToUnix_Safari(t *testing.T) {
	// Seconds since 2001-01-01.
	native := float64(wallClock.Unix() - 978307200)

	got := Safari.ToUnix(native)
	assert.InDelta(t, float64(wallClock.Unix()), got, 1.0)
}

func TestToUnix_Firefox(t *testing.T) {
	// Microseconds since 1970-01-01.
	native := float64(wallClock.Unix()) * 1e6

	got := Firefox.ToUnix(native)
	assert.InDelta(t, float64(wallClock.Unix()), got, 1.0)
}

func TestToUnix_UnknownBrowserFallsBackToUnixSeconds(t *testing.T) {
	raw := float64(wallClock.Unix())
	got := Browser("Netscape").ToUnix(raw)
	assert.Equal(t, raw, got)
}

func TestTime_RoundTrip(t *testing.T) {
	native := float64(wallClock.Unix()+11644473600) * 1e6
	got := Chrome.Time(native)
	assert.WithinDuration(t, wallClock, got, time.Second)
}

func TestParse(t *testing.T) {
	for _, b := range All() {
		got, err := Parse(string(b))
		assert.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := Parse("chrome") // case-sensitive
	assert.Error(t, err)
}
