package main

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IonCurrentToPressure(t *testing.T) {
	assert.InEpsilon(t, 1e-16/0.0801, IonCurrentToPressure(1), 1e-12)
	assert.InEpsilon(t, 4021*1e-16/0.0801, IonCurrentToPressure(4021), 1e-12)
}

func Test_InletState(t *testing.T) {
	base := time.Date(2024, 7, 11, 4, 0, 0, 0, time.UTC)
	cases := []struct {
		offset time.Duration
		want   string
	}{
		{0, "low"},
		{7*time.Minute + 29*time.Second, "low"},
		{7*time.Minute + 30*time.Second, "high"},
		{14*time.Minute + 59*time.Second, "high"},
		{15 * time.Minute, "low"},
		{22*time.Minute + 29*time.Second, "low"},
		{22*time.Minute + 30*time.Second, "high"},
		{30 * time.Minute, "low"},
		{59 * time.Minute, "high"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, InletState(base.Add(c.offset)), "offset %v", c.offset)
	}
}

func Test_ReshapeCycles_SplitsOnWater(t *testing.T) {
	ts := time.Date(2024, 7, 11, 4, 1, 0, 0, time.UTC)
	masses := []int{18, 28, 40, 18, 40}
	rows := make([]RGARow, len(masses))
	for i, m := range masses {
		rows[i] = RGARow{BatchID: 1, LineNum: i, Mass: m, Pressure: float64(m), Timestamp: ts}
	}

	cycles := ReshapeCycles(rows)
	require.Len(t, cycles, 2)

	assert.Equal(t, map[int]float64{18: 18, 28: 28, 40: 40}, cycles[0].Pressures)
	assert.Equal(t, map[int]float64{18: 18, 40: 40}, cycles[1].Pressures)
}

func Test_ReshapeCycles_RatiosToArgon(t *testing.T) {
	ts := time.Date(2024, 7, 11, 4, 1, 0, 0, time.UTC)
	rows := []RGARow{
		{BatchID: 1, Mass: 18, Pressure: 8, Timestamp: ts},
		{BatchID: 1, Mass: 28, Pressure: 6, Timestamp: ts},
		{BatchID: 1, Mass: 40, Pressure: 2, Timestamp: ts},
	}
	cycles := ReshapeCycles(rows)
	require.Len(t, cycles, 1)

	assert.InDelta(t, 4, cycles[0].Ratios[18], 1e-12)
	assert.InDelta(t, 3, cycles[0].Ratios[28], 1e-12)
	// The reference mass has no ratio to itself
	_, ok := cycles[0].Ratios[40]
	assert.False(t, ok)
}

func Test_ReshapeCycles_NoArgonNoRatios(t *testing.T) {
	ts := time.Date(2024, 7, 11, 4, 1, 0, 0, time.UTC)
	rows := []RGARow{
		{BatchID: 1, Mass: 18, Pressure: 8, Timestamp: ts},
		{BatchID: 1, Mass: 28, Pressure: 6, Timestamp: ts},
	}
	cycles := ReshapeCycles(rows)
	require.Len(t, cycles, 1)
	assert.Empty(t, cycles[0].Ratios)
}

func Test_ReshapeCycles_MeanTimestampAndInlet(t *testing.T) {
	t0 := time.Date(2024, 7, 11, 4, 8, 0, 0, time.UTC)
	rows := []RGARow{
		{BatchID: 1, Mass: 18, Pressure: 1, Timestamp: t0},
		{BatchID: 1, Mass: 40, Pressure: 1, Timestamp: t0.Add(20 * time.Second)},
	}
	cycles := ReshapeCycles(rows)
	require.Len(t, cycles, 1)
	assert.Equal(t, t0.Add(10*time.Second), cycles[0].Timestamp)
	// 04:08:10 is inside the second 7.5-minute window
	assert.Equal(t, "high", cycles[0].Inlet)
}

func Test_ReshapeCycles_BatchBoundaryFlushes(t *testing.T) {
	ts := time.Date(2024, 7, 11, 4, 1, 0, 0, time.UTC)
	rows := []RGARow{
		{BatchID: 1, Mass: 18, Pressure: 1, Timestamp: ts},
		{BatchID: 1, Mass: 28, Pressure: 1, Timestamp: ts},
		// Cycles never span transmission batches
		{BatchID: 2, Mass: 28, Pressure: 1, Timestamp: ts},
	}
	cycles := ReshapeCycles(rows)
	require.Len(t, cycles, 2)
	assert.Equal(t, 1, cycles[0].BatchID)
	assert.Equal(t, 2, cycles[1].BatchID)
}

func Test_MassLabels(t *testing.T) {
	assert.Equal(t, "water", MassLabel(18))
	assert.Equal(t, "argon", MassLabel(40))
	assert.Equal(t, "unknown", MassLabel(99))
	assert.True(t, IsMonitoredMass(44))
	assert.False(t, IsMonitoredMass(99))
	assert.False(t, math.Signbit(IonCurrentToPressure(0)))
}
