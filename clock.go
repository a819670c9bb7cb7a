// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Onboard clock reconciliation.  Each status record carries two
// independently drifting clocks: the lander clock (date/time fields with
// second granularity and slow jitter) and the sensor-unit clock (a
// seconds counter).  The only trusted time is the relay's received time
// for the whole batch.  Reconciliation turns those three into one
// canonical timestamp per row, keeping the originals as provenance.
package main

import (
	"sort"
	"time"
)

// ClockCorrector removes systematic jitter from the lander clock.  The
// exact correction algorithm varies by deployment, so it is pluggable;
// whatever the strategy, the output must be monotonic within a batch and
// within a bounded offset of the received time.
type ClockCorrector interface {
	Correct(received time.Time, rows []StatusRow) []time.Time
}

// MedianOffsetCorrector is the default strategy: shift every lander
// timestamp by the median offset between the lander clock and the batch
// received time, then clamp the result to non-decreasing.  The median
// makes the offset robust to individual corrupted readings that slipped
// past QC.
type MedianOffsetCorrector struct{}

// Correct implements ClockCorrector
func (MedianOffsetCorrector) Correct(received time.Time, rows []StatusRow) []time.Time {
	if len(rows) == 0 {
		return nil
	}

	offsets := make([]time.Duration, len(rows))
	for i, r := range rows {
		offsets[i] = received.Sub(r.LanderTime())
	}
	offset := medianDuration(offsets)

	corrected := make([]time.Time, len(rows))
	for i, r := range rows {
		corrected[i] = r.LanderTime().Add(offset)
		if i > 0 && corrected[i].Before(corrected[i-1]) {
			corrected[i] = corrected[i-1]
		}
	}
	return corrected
}

func medianDuration(ds []time.Duration) time.Duration {
	sorted := make([]time.Duration, len(ds))
	copy(sorted, ds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ReconcileStatus sets the canonical timestamp on each status row of one
// batch, and derives the sensor-unit clock's epoch so that the velocity
// stream can be placed on the same axis.  Rows must all belong to the
// same batch; they are processed in line order.  Returns new rows, the
// inputs are not mutated.
func ReconcileStatus(received time.Time, rows []StatusRow, corr ClockCorrector) []StatusRow {
	if len(rows) == 0 {
		return nil
	}

	out := make([]StatusRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNum < out[j].LineNum })

	corrected := corr.Correct(received, out)
	for i := range out {
		out[i].Timestamp = corrected[i]
	}

	// The sensor-unit clock counts seconds since unit power-on.  Its
	// epoch on the corrected axis is estimated once per batch, again by
	// median, and each row's sensor reading is replayed against it.
	epochs := make([]time.Duration, len(out))
	for i, r := range out {
		epochs[i] = r.Timestamp.Sub(advClockTime(r.ADVClock))
	}
	epoch := medianDuration(epochs)
	for i := range out {
		out[i].ADVTimestamp = advClockTime(out[i].ADVClock).Add(epoch)
	}

	return out
}

// advClockTime places a raw sensor-clock seconds counter on an arbitrary
// fixed epoch so that durations between readings are preserved
func advClockTime(secs float64) time.Time {
	return time.Unix(0, int64(secs*float64(time.Second)))
}
