// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Per-batch aggregation.  Every cleaned stream is summarized as mean and
// sample standard deviation per numeric field, with missing values
// ignored; the velocity stream additionally carries the fraction of
// samples lost to sequence gaps.
package main

import (
	"fmt"
	"sort"
	"time"
)

// accumulator collects one group's values field by field
type accumulator struct {
	batchID int
	inlet   string
	times   []time.Time
	values  map[string][]float64
	order   []string
	missing int
}

func newAccumulator(batchID int, inlet string) *accumulator {
	return &accumulator{batchID: batchID, inlet: inlet, values: map[string][]float64{}}
}

func (a *accumulator) add(field string, v float64) {
	if _, seen := a.values[field]; !seen {
		a.order = append(a.order, field)
	}
	a.values[field] = append(a.values[field], v)
}

func (a *accumulator) row(rows int) AggregateRow {
	out := AggregateRow{
		BatchID:   a.batchID,
		Inlet:     a.inlet,
		Timestamp: MeanTime(a.times),
		Rows:      rows,
		Missing:   a.missing,
		Fields:    map[string]FieldStat{},
	}
	for _, f := range a.order {
		mean, stddev, count := MeanStd(a.values[f])
		out.Fields[f] = FieldStat{Mean: mean, Stddev: stddev, Count: count}
	}
	if a.missing+rows > 0 {
		out.MissingFrac = float64(a.missing) / float64(a.missing+rows)
	}
	return out
}

// groupKey orders groups for stable output
type groupKey struct {
	batchID int
	inlet   string
}

func sortedRows(groups map[groupKey]*accumulator, counts map[groupKey]int) []AggregateRow {
	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].batchID != keys[j].batchID {
			return keys[i].batchID < keys[j].batchID
		}
		return keys[i].inlet < keys[j].inlet
	})
	out := make([]AggregateRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, groups[k].row(counts[k]))
	}
	return out
}

// AggregateStatus summarizes the status stream per batch
func AggregateStatus(rows []StatusRow) []AggregateRow {
	groups := map[groupKey]*accumulator{}
	counts := map[groupKey]int{}
	for _, r := range rows {
		k := groupKey{batchID: r.BatchID}
		a, ok := groups[k]
		if !ok {
			a = newAccumulator(r.BatchID, "")
			groups[k] = a
		}
		a.times = append(a.times, r.Timestamp)
		a.add("battery_voltage", r.BatteryVoltage)
		a.add("heading", r.Heading)
		a.add("pitch", r.Pitch)
		a.add("roll", r.Roll)
		a.add("sound_speed", r.SoundSpeed)
		a.add("temperature", r.TempC)
		counts[k]++
	}
	return sortedRows(groups, counts)
}

// AggregateTurbo summarizes the turbopump stream per batch
func AggregateTurbo(rows []TurboRow) []AggregateRow {
	groups := map[groupKey]*accumulator{}
	counts := map[groupKey]int{}
	for _, r := range rows {
		k := groupKey{batchID: r.BatchID}
		a, ok := groups[k]
		if !ok {
			a = newAccumulator(r.BatchID, "")
			groups[k] = a
		}
		a.times = append(a.times, r.Timestamp)
		a.add("speed_hz", r.SpeedHz)
		a.add("power_w", r.PowerW)
		a.add("bearing_temp", r.BearingTempC)
		a.add("motor_temp", r.MotorTempC)
		a.add("voltage", r.Voltage)
		counts[k]++
	}
	return sortedRows(groups, counts)
}

// AggregateTemp summarizes the housing temperature stream per batch
func AggregateTemp(rows []TempRow) []AggregateRow {
	groups := map[groupKey]*accumulator{}
	counts := map[groupKey]int{}
	for _, r := range rows {
		k := groupKey{batchID: r.BatchID}
		a, ok := groups[k]
		if !ok {
			a = newAccumulator(r.BatchID, "")
			groups[k] = a
		}
		a.times = append(a.times, r.Timestamp)
		a.add("housing_temp", r.HousingTempC)
		a.add("electronics_temp", r.ElectronicsTempC)
		counts[k]++
	}
	return sortedRows(groups, counts)
}

// AggregateADV summarizes the velocity stream per batch, including the
// missing fraction derived from sequence gaps
func AggregateADV(rows []ADVRow) []AggregateRow {
	groups := map[groupKey]*accumulator{}
	counts := map[groupKey]int{}
	for _, r := range rows {
		k := groupKey{batchID: r.BatchID}
		a, ok := groups[k]
		if !ok {
			a = newAccumulator(r.BatchID, "")
			groups[k] = a
		}
		a.times = append(a.times, r.Timestamp)
		a.missing += r.Missing
		a.add("pressure", r.Pressure)
		a.add("ana1", r.Ana1)
		a.add("ana2", r.Ana2)
		a.add("vx", r.VX)
		a.add("vy", r.VY)
		a.add("vz", r.VZ)
		for i := 0; i < 3; i++ {
			a.add(fmt.Sprintf("amp%d", i+1), r.Amp[i])
			a.add(fmt.Sprintf("cor%d", i+1), r.Cor[i])
		}
		counts[k]++
	}
	return sortedRows(groups, counts)
}

// MassField is the aggregate field name for a monitored mass's partial
// pressure; MassRatioField is the name for its ratio to argon
func MassField(m int) string {
	return fmt.Sprintf("m%02d", m)
}

// MassRatioField names the argon-ratio column for a monitored mass
func MassRatioField(m int) string {
	return fmt.Sprintf("m%02d_ar", m)
}

// AggregateRGA summarizes the wide-form inlet cycles per (batch, inlet
// state).  Cycles missing a mass simply contribute nothing to that
// column, which is what leaves the per-field counts meaningful.
func AggregateRGA(cycles []InletCycle) []AggregateRow {
	groups := map[groupKey]*accumulator{}
	counts := map[groupKey]int{}
	for _, c := range cycles {
		k := groupKey{batchID: c.BatchID, inlet: c.Inlet}
		a, ok := groups[k]
		if !ok {
			a = newAccumulator(c.BatchID, c.Inlet)
			groups[k] = a
		}
		a.times = append(a.times, c.Timestamp)
		for _, m := range MonitoredMasses {
			if p, ok := c.Pressures[m]; ok {
				a.add(MassField(m), p)
			}
			if r, ok := c.Ratios[m]; ok {
				a.add(MassRatioField(m), r)
			}
		}
		counts[k]++
	}
	return sortedRows(groups, counts)
}
