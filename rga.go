// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Mass-spectrometer (RGA) handling: partial pressure conversion, the
// long-to-wide inlet-cycle reshape, and inlet state labeling
package main

import (
	"time"
)

// Chemical labels for the monitored masses, used on the report page.
// The mapping is explicit; nothing selects columns by name pattern.
var massLabels = map[int]string{
	18: "water",
	28: "nitrogen",
	32: "oxygen",
	40: "argon",
	44: "carbon dioxide",
}

// IsMonitoredMass reports whether readings at this mass are part of the
// instrument's scan program
func IsMonitoredMass(m int) bool {
	for _, mm := range MonitoredMasses {
		if m == mm {
			return true
		}
	}
	return false
}

// MassLabel returns the chemical label for a monitored mass
func MassLabel(m int) string {
	if s, ok := massLabels[m]; ok {
		return s
	}
	return "unknown"
}

// IonCurrentToPressure converts a raw ion current reading to partial
// pressure via the analyzer's fixed linear sensitivity
func IonCurrentToPressure(current float64) float64 {
	return current * ionCurrentScale / ionCurrentSensitivity
}

// InletState labels which gas-sampling inlet was active at a given time.
// The valve alternates every 7.5 minutes within the hour: minutes 0-7.49
// are "low", 7.5-14.99 "high", and so on.
func InletState(t time.Time) string {
	minutes := float64(t.Minute()) + float64(t.Second())/60 + float64(t.Nanosecond())/6e10
	if int(minutes/inletPeriodMinutes)%2 == 0 {
		return "low"
	}
	return "high"
}

// ReshapeCycles reshapes the long-form mass-spec table (one row per mass
// per reading) into wide form (one row per inlet cycle with one column
// per monitored mass).  A new cycle begins each time the water mass is
// read again within a batch; each cycle is stamped with the mean time of
// its member readings and labeled with the inlet active at that time.
// All non-reference masses additionally get a ratio to argon, which is
// chemically inert and serves as the flow-normalization reference.
// Rows must already carry timestamps and arrive in line order per batch.
func ReshapeCycles(rows []RGARow) []InletCycle {
	var cycles []InletCycle

	var cur map[int]float64
	var times []time.Time
	var curBatch int

	flush := func() {
		if len(cur) == 0 {
			return
		}
		ts := MeanTime(times)
		c := InletCycle{
			BatchID:   curBatch,
			Timestamp: ts,
			Inlet:     InletState(ts),
			Pressures: cur,
			Ratios:    map[int]float64{},
		}
		if ref, ok := cur[MassReference]; ok && ref != 0 {
			for m, p := range cur {
				if m != MassReference {
					c.Ratios[m] = p / ref
				}
			}
		}
		cycles = append(cycles, c)
		cur = nil
		times = nil
	}

	for _, r := range rows {
		if r.BatchID != curBatch {
			flush()
			curBatch = r.BatchID
		}
		if r.Mass == MassCycleMarker && len(cur) > 0 {
			flush()
		}
		if cur == nil {
			cur = map[int]float64{}
		}
		cur[r.Mass] = r.Pressure
		times = append(times, r.Timestamp)
	}
	flush()

	return cycles
}
