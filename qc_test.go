package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func goodStatusRow() StatusRow {
	return StatusRow{
		Received:       time.Date(2024, 7, 11, 4, 2, 0, 0, time.UTC),
		LanderDay:      11,
		LanderMonth:    7,
		LanderYear:     24,
		LanderHour:     4,
		LanderMin:      0,
		LanderSec:      13,
		BatteryVoltage: 12.1,
		SoundSpeed:     1502.1,
	}
}

func goodADVRow() ADVRow {
	return ADVRow{Seq: 17, Pressure: 2.31, Ana1: 0.11, Ana2: -0.02}
}

func Test_StatusRowValid_AcceptsInRange(t *testing.T) {
	// A row satisfying all predicates is never dropped
	assert.True(t, StatusRowValid(goodStatusRow()))
}

func Test_StatusRowValid_Bounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*StatusRow)
	}{
		{"sound speed low", func(r *StatusRow) { r.SoundSpeed = 1450 }},
		{"sound speed high", func(r *StatusRow) { r.SoundSpeed = 2000 }},
		{"day zero", func(r *StatusRow) { r.LanderDay = 0 }},
		{"day 32", func(r *StatusRow) { r.LanderDay = 32 }},
		{"month zero", func(r *StatusRow) { r.LanderMonth = 0 }},
		{"month 13", func(r *StatusRow) { r.LanderMonth = 13 }},
		{"minute 61", func(r *StatusRow) { r.LanderMin = 61 }},
		{"hour 24", func(r *StatusRow) { r.LanderHour = 24 }},
		{"year 100", func(r *StatusRow) { r.LanderYear = 100 }},
		{"received too old", func(r *StatusRow) { r.Received = time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC) }},
		{"received at window end", func(r *StatusRow) { r.Received = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }},
		{"battery zero", func(r *StatusRow) { r.BatteryVoltage = 0 }},
		{"battery 20", func(r *StatusRow) { r.BatteryVoltage = 20 }},
	}
	for _, c := range cases {
		r := goodStatusRow()
		c.mutate(&r)
		assert.False(t, StatusRowValid(r), c.name)
	}

	// The boundary cases that are deliberately INSIDE the window
	r := goodStatusRow()
	r.LanderMin = 60 // leap-second minute is admitted
	assert.True(t, StatusRowValid(r))
	r = goodStatusRow()
	r.Received = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, StatusRowValid(r))
}

func Test_ADVRowValid_Bounds(t *testing.T) {
	assert.True(t, ADVRowValid(goodADVRow()))

	cases := []struct {
		name   string
		mutate func(*ADVRow)
	}{
		{"seq negative", func(r *ADVRow) { r.Seq = -1 }},
		{"seq 256", func(r *ADVRow) { r.Seq = 256 }},
		{"pressure low", func(r *ADVRow) { r.Pressure = -10 }},
		{"pressure high", func(r *ADVRow) { r.Pressure = 10 }},
		{"ana1 out", func(r *ADVRow) { r.Ana1 = 1 }},
		{"ana2 out", func(r *ADVRow) { r.Ana2 = -1 }},
	}
	for _, c := range cases {
		r := goodADVRow()
		c.mutate(&r)
		assert.False(t, ADVRowValid(r), c.name)
	}

	// Sequence bounds are inclusive
	r := goodADVRow()
	r.Seq = 0
	assert.True(t, ADVRowValid(r))
	r.Seq = 255
	assert.True(t, ADVRowValid(r))
}

func Test_Filters_AreMonotonicReducers(t *testing.T) {
	good := goodStatusRow()
	bad := goodStatusRow()
	bad.SoundSpeed = 0

	in := []StatusRow{good, bad, good}
	out := FilterStatus(in)
	assert.LessOrEqual(t, len(out), len(in))
	assert.Len(t, out, 2)

	// Filtering twice changes nothing
	assert.Equal(t, out, FilterStatus(out))

	advIn := []ADVRow{goodADVRow(), {Seq: 300}}
	advOut := FilterADV(advIn)
	assert.Len(t, advOut, 1)
	assert.Equal(t, advOut, FilterADV(advOut))
}
