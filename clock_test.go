package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A batch received at 04:02:30 whose lander clock runs 2 minutes slow,
// with one jittered reading in the middle
func clockFixture() (time.Time, []StatusRow) {
	received := time.Date(2024, 7, 11, 4, 2, 30, 0, time.UTC)
	rows := []StatusRow{
		{LineNum: 0, LanderDay: 11, LanderMonth: 7, LanderYear: 24, LanderHour: 4, LanderMin: 0, LanderSec: 0, ADVClock: 1000},
		{LineNum: 1, LanderDay: 11, LanderMonth: 7, LanderYear: 24, LanderHour: 4, LanderMin: 0, LanderSec: 10, ADVClock: 1010},
		// Jitter: the clock read back 4:00:08 after 4:00:10
		{LineNum: 2, LanderDay: 11, LanderMonth: 7, LanderYear: 24, LanderHour: 4, LanderMin: 0, LanderSec: 8, ADVClock: 1020},
		{LineNum: 3, LanderDay: 11, LanderMonth: 7, LanderYear: 24, LanderHour: 4, LanderMin: 0, LanderSec: 30, ADVClock: 1030},
	}
	for i := range rows {
		rows[i].Received = received
	}
	return received, rows
}

func Test_MedianOffsetCorrector_Monotonic(t *testing.T) {
	received, rows := clockFixture()
	corrected := MedianOffsetCorrector{}.Correct(received, rows)
	require.Len(t, corrected, len(rows))

	for i := 1; i < len(corrected); i++ {
		assert.False(t, corrected[i].Before(corrected[i-1]), "corrected times must be monotonic")
	}
}

func Test_MedianOffsetCorrector_BoundedOffset(t *testing.T) {
	received, rows := clockFixture()
	corrected := MedianOffsetCorrector{}.Correct(received, rows)

	// Every corrected time stays within the batch's own clock span of
	// the received time
	for _, c := range corrected {
		d := received.Sub(c)
		if d < 0 {
			d = -d
		}
		assert.Less(t, d, 2*time.Minute)
	}
}

func Test_ReconcileStatus_SetsCanonicalTimestamp(t *testing.T) {
	received, rows := clockFixture()
	out := ReconcileStatus(received, rows, MedianOffsetCorrector{})
	require.Len(t, out, len(rows))

	for i, r := range out {
		assert.False(t, r.Timestamp.IsZero())
		// Provenance fields are untouched
		assert.Equal(t, rows[i].LanderSec, r.LanderSec)
		assert.Equal(t, received, r.Received)
	}

	// The inputs are not mutated
	assert.True(t, rows[0].Timestamp.IsZero())
}

func Test_ReconcileStatus_ADVTimestampPreservesSpacing(t *testing.T) {
	received, rows := clockFixture()
	out := ReconcileStatus(received, rows, MedianOffsetCorrector{})

	// The sensor clock ticks 10 s between rows; the reconciled sensor
	// timestamps must preserve exactly that spacing even where the
	// lander clock jittered
	for i := 1; i < len(out); i++ {
		assert.Equal(t, 10*time.Second, out[i].ADVTimestamp.Sub(out[i-1].ADVTimestamp))
	}
}

func Test_ReconcileStatus_Empty(t *testing.T) {
	assert.Nil(t, ReconcileStatus(time.Now(), nil, MedianOffsetCorrector{}))
}
