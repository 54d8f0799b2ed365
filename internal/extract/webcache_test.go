package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ieTicks encodes a wall-clock time as an ESE AccessedTime value, 100ns
// ticks since 1601-01-01.
func ieTicks(t time.Time) int64 {
	return (t.Unix() + 11644473600) * 10_000_000
}

func TestWebcacheAccumulator_SumsDuplicateSightings(t *testing.T) {
	now := time.Now().UTC()
	recent := ieTicks(now.AddDate(0, 0, -3))
	acc := newWebcacheAccumulator(now.AddDate(0, 0, -60))

	acc.add(historyRecord{
		ContainerID:  8,
		URL:          "Visited: user@https://example.com/page",
		AccessedTime: recent,
		AccessCount:  3,
	})
	acc.add(historyRecord{
		ContainerID:  12,
		URL:          "Visited: user@https://example.com/page",
		AccessedTime: recent,
		AccessCount:  5,
	})

	result := acc.result()
	urls := result.Tables[0]
	require.Len(t, urls.Rows, 1, "duplicate sightings collapse onto one url")
	assert.Equal(t, int64(8), urls.Rows[0][0], "access counts summed")
	assert.Equal(t, "https://example.com/page", urls.Rows[0][3], "prefix token stripped")

	visits := result.Tables[1]
	require.Len(t, visits.Rows, 1, "only the first sighting records a visit")
}

func TestWebcacheAccumulator_IgnoresNonPositiveDeltas(t *testing.T) {
	now := time.Now().UTC()
	recent := ieTicks(now.AddDate(0, 0, -3))
	acc := newWebcacheAccumulator(now.AddDate(0, 0, -60))

	acc.add(historyRecord{ContainerID: 1, URL: "x@https://example.com/a", AccessedTime: recent, AccessCount: 4})
	acc.add(historyRecord{ContainerID: 1, URL: "x@https://example.com/a", AccessedTime: recent, AccessCount: 0})
	acc.add(historyRecord{ContainerID: 1, URL: "x@https://example.com/a", AccessedTime: recent, AccessCount: -2})

	result := acc.result()
	assert.Equal(t, int64(4), result.Tables[0].Rows[0][0],
		"zero and negative increments leave the total alone")
}

func TestWebcacheAccumulator_CutoffAndMalformedRows(t *testing.T) {
	now := time.Now().UTC()
	acc := newWebcacheAccumulator(now.AddDate(0, 0, -60))

	// Predates the cutoff.
	acc.add(historyRecord{
		ContainerID:  1,
		URL:          "x@https://example.com/old",
		AccessedTime: ieTicks(now.AddDate(0, 0, -90)),
		AccessCount:  1,
	})
	// No embedded http url to recover.
	acc.add(historyRecord{
		ContainerID:  1,
		URL:          "file:///C:/Users/user/notes.html",
		AccessedTime: ieTicks(now.AddDate(0, 0, -1)),
		AccessCount:  1,
	})

	result := acc.result()
	assert.Empty(t, result.Tables[0].Rows)
	assert.Empty(t, result.Tables[1].Rows)
}

func TestWebcacheAccumulator_CompositeVisitIDs(t *testing.T) {
	now := time.Now().UTC()
	recent := ieTicks(now.AddDate(0, 0, -2))
	acc := newWebcacheAccumulator(now.AddDate(0, 0, -60))

	acc.add(historyRecord{ContainerID: 8, URL: "x@https://example.com/a", AccessedTime: recent, AccessCount: 1})
	acc.add(historyRecord{ContainerID: 8, URL: "x@https://example.com/b", AccessedTime: recent, AccessCount: 1})
	acc.add(historyRecord{ContainerID: 12, URL: "x@https://example.com/c", AccessedTime: recent, AccessCount: 1})

	visits := acc.result().Tables[1]
	require.Len(t, visits.Rows, 3)
	assert.Equal(t, int64(81), visits.Rows[0][1], "container id joined with url sequence")
	assert.Equal(t, int64(82), visits.Rows[1][1])
	assert.Equal(t, int64(123), visits.Rows[2][1])

	assert.Equal(t, int64(1), visits.Rows[0][2])
	assert.Equal(t, int64(2), visits.Rows[1][2])
	assert.Equal(t, int64(3), visits.Rows[2][2])
}

func TestWebcacheAccumulator_RedirectChainKeptFromFirstSighting(t *testing.T) {
	now := time.Now().UTC()
	recent := ieTicks(now.AddDate(0, 0, -2))
	acc := newWebcacheAccumulator(now.AddDate(0, 0, -60))

	acc.add(historyRecord{
		ContainerID:  1,
		URL:          "x@https://example.com/a",
		AccessedTime: recent,
		AccessCount:  1,
		RedirectURLs: "https://example.com/origin",
	})

	urls := acc.result().Tables[0]
	require.Len(t, urls.Rows, 1)
	assert.Equal(t, "https://example.com/origin", urls.Rows[0][1])
}
