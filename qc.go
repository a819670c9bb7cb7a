// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Quality-control range filters
package main

// A row failing ANY predicate for its type is dropped, not marked;
// downstream consumers never see invalid rows.  The onboard clock fields
// are narrow integer ranges, so anything outside them is a corrupted
// transmission rather than a real sensor excursion.

// StatusRowValid applies the status-stream QC predicates
func StatusRowValid(r StatusRow) bool {
	if !(r.SoundSpeed > 1450 && r.SoundSpeed < 2000) {
		return false
	}
	if r.LanderDay < 1 || r.LanderDay > 31 {
		return false
	}
	if r.LanderMonth < 1 || r.LanderMonth > 12 {
		return false
	}
	// 60, not 59: the upstream threshold admits a leap-second minute
	if r.LanderMin < 0 || r.LanderMin > 60 {
		return false
	}
	if r.LanderHour < 0 || r.LanderHour > 23 {
		return false
	}
	if r.LanderYear < 0 || r.LanderYear > 99 {
		return false
	}
	if r.Received.Before(qcReceivedMin) || !r.Received.Before(qcReceivedMax) {
		return false
	}
	if !(r.BatteryVoltage > 0 && r.BatteryVoltage < 20) {
		return false
	}
	return true
}

// ADVRowValid applies the velocity-stream QC predicates
func ADVRowValid(r ADVRow) bool {
	if r.Seq < 0 || r.Seq > 255 {
		return false
	}
	if !(r.Pressure > -10 && r.Pressure < 10) {
		return false
	}
	if !(r.Ana1 > -1 && r.Ana1 < 1) {
		return false
	}
	if !(r.Ana2 > -1 && r.Ana2 < 1) {
		return false
	}
	return true
}

// FilterStatus returns the subset of rows passing QC
func FilterStatus(rows []StatusRow) []StatusRow {
	out := make([]StatusRow, 0, len(rows))
	for _, r := range rows {
		if StatusRowValid(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterADV returns the subset of rows passing QC
func FilterADV(rows []ADVRow) []ADVRow {
	out := make([]ADVRow, 0, len(rows))
	for _, r := range rows {
		if ADVRowValid(r) {
			out = append(out, r)
		}
	}
	return out
}
