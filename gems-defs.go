// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Data structures for the GEMS lander telemetry streams
package main

import (
	"time"
)

// RecordType identifies which onboard subsystem emitted a telemetry line
type RecordType int

// The record types present in the raw feed
const (
	RecordUnknown RecordType = iota
	RecordPostTime
	RecordStatus
	RecordRGA
	RecordTurbo
	RecordTemp
	RecordADV
)

// Name of a record type, used in logs and table filenames
func (rt RecordType) String() string {
	switch rt {
	case RecordPostTime:
		return "post-time"
	case RecordStatus:
		return "status"
	case RecordRGA:
		return "rga"
	case RecordTurbo:
		return "turbo"
	case RecordTemp:
		return "temperature"
	case RecordADV:
		return "velocity"
	}
	return "unknown"
}

// TaggedLine is a raw feed line plus the metadata derived during classification
type TaggedLine struct {
	Type    RecordType
	BatchID int
	LineNum int
	Fields  []string
}

// Batch is one transmission ("send") of buffered telemetry lines, bounded
// by the relay's post markers.  Received is the server time of the post.
type Batch struct {
	ID       int
	Received time.Time
	Lines    []TaggedLine
}

// StatusRow is one status/navigation record.  The onboard lander clock
// fields are kept as raw integers so that QC can reject corrupted values
// before anything assembles them into a time.Time.
type StatusRow struct {
	BatchID  int
	LineNum  int
	Received time.Time

	// Onboard lander clock, as transmitted
	LanderDay, LanderMonth, LanderYear int
	LanderHour, LanderMin, LanderSec   int

	// Sensor-unit (ADV) clock, seconds since unit power-on
	ADVClock float64

	BatteryVoltage float64
	Heading        float64
	Pitch          float64
	Roll           float64
	SoundSpeed     float64
	TempC          float64

	// Set by clock reconciliation; zero until then
	Timestamp    time.Time
	ADVTimestamp time.Time
}

// LanderTime assembles the raw onboard clock fields into a UTC time.
// Only meaningful for rows that have passed QC; out-of-range fields
// would be silently normalized by time.Date.
func (r *StatusRow) LanderTime() time.Time {
	return time.Date(2000+r.LanderYear, time.Month(r.LanderMonth), r.LanderDay,
		r.LanderHour, r.LanderMin, r.LanderSec, 0, time.UTC)
}

// RGARow is one mass-spectrometer reading: ion current at a single
// monitored mass, plus the partial pressure derived from it
type RGARow struct {
	BatchID    int
	LineNum    int
	Mass       int
	IonCurrent float64
	Pressure   float64
	Timestamp  time.Time
}

// TurboRow is one turbopump status record
type TurboRow struct {
	BatchID      int
	LineNum      int
	SpeedHz      float64
	PowerW       float64
	BearingTempC float64
	MotorTempC   float64
	Voltage      float64
	Timestamp    time.Time
}

// TempRow is one housing temperature record
type TempRow struct {
	BatchID          int
	LineNum          int
	HousingTempC     float64
	ElectronicsTempC float64
	Timestamp        time.Time
}

// ADVRow is one velocity record from the acoustic velocity sensor.  The
// stream has no per-sample clock, only a sequence count that wraps at 256;
// Timestamp and Missing are filled in by reconciliation.
type ADVRow struct {
	BatchID  int
	LineNum  int
	Seq      int
	Pressure float64
	Ana1     float64
	Ana2     float64
	VX       float64
	VY       float64
	VZ       float64
	Amp      [3]float64
	Cor      [3]float64

	Timestamp time.Time
	Missing   int
}

// InletCycle is one wide-form mass-spec row: the pressures read during a
// single pass over the monitored masses, keyed by mass.  A new cycle
// begins each time mass 18 (water) is read again within a batch.
type InletCycle struct {
	BatchID   int
	Timestamp time.Time
	Inlet     string
	Pressures map[int]float64
	Ratios    map[int]float64
}

// FieldStat is the per-field summary within an aggregate row
type FieldStat struct {
	Mean   float64
	Stddev float64
	Count  int
}

// AggregateRow summarizes one group of cleaned rows: per (batch) for most
// streams, per (batch, inlet) for mass-spec
type AggregateRow struct {
	BatchID     int
	Inlet       string
	Timestamp   time.Time
	Rows        int
	Missing     int
	MissingFrac float64
	Fields      map[string]FieldStat
}

// CleanedTables is everything the pipeline hands to the renderer and the
// table exporter.  Each table is an immutable derivation of the raw feed.
type CleanedTables struct {
	Batches  []Batch
	Status   []StatusRow
	RGA      []RGARow
	Turbo    []TurboRow
	Temp     []TempRow
	ADV      []ADVRow
	Cycles   []InletCycle
	Dropped  int

	StatusAgg []AggregateRow
	RGAAgg    []AggregateRow
	TurboAgg  []AggregateRow
	TempAgg   []AggregateRow
	ADVAgg    []AggregateRow
}
