// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// The processing pipeline: classify, extract, filter, reconcile,
// aggregate.  Every stage derives a new table; nothing is mutated once
// produced.
package main

import (
	"time"

	"github.com/charmbracelet/log"
)

// ProcessFeed runs the whole pipeline over one fetched feed
func ProcessFeed(raw string, fetched time.Time, corr ClockCorrector) *CleanedTables {

	batches, dropped := TagLines(raw, fetched)
	t := &CleanedTables{Batches: batches, Dropped: dropped}

	for _, b := range batches {

		status := FilterStatus(ExtractStatus(b))
		status = ReconcileStatus(b.Received, status, corr)

		adv := FilterADV(ExtractADV(b))
		adv = ReconcileADV(b.Received, status, adv)

		// The slower streams have no clock of their own; each row takes
		// the timestamp of the status record nearest before it
		rga := ExtractRGA(b)
		for i := range rga {
			rga[i].Timestamp = stampByStatus(status, rga[i].LineNum, b.Received)
		}
		turbo := ExtractTurbo(b)
		for i := range turbo {
			turbo[i].Timestamp = stampByStatus(status, turbo[i].LineNum, b.Received)
		}
		temp := ExtractTemp(b)
		for i := range temp {
			temp[i].Timestamp = stampByStatus(status, temp[i].LineNum, b.Received)
		}

		t.Status = append(t.Status, status...)
		t.ADV = append(t.ADV, adv...)
		t.RGA = append(t.RGA, rga...)
		t.Turbo = append(t.Turbo, turbo...)
		t.Temp = append(t.Temp, temp...)
	}

	t.Cycles = ReshapeCycles(t.RGA)

	t.StatusAgg = AggregateStatus(t.Status)
	t.RGAAgg = AggregateRGA(t.Cycles)
	t.TurboAgg = AggregateTurbo(t.Turbo)
	t.TempAgg = AggregateTemp(t.Temp)
	t.ADVAgg = AggregateADV(t.ADV)

	log.Info("pipeline complete",
		"batches", len(t.Batches),
		"status", len(t.Status),
		"rga", len(t.RGA),
		"turbo", len(t.Turbo),
		"temperature", len(t.Temp),
		"velocity", len(t.ADV),
		"cycles", len(t.Cycles),
		"dropped", t.Dropped)

	return t
}

// stampByStatus returns the timestamp of the nearest status row at or
// before the given line, falling back to the first status row and then
// to the batch received time
func stampByStatus(status []StatusRow, lineNum int, received time.Time) time.Time {
	if len(status) == 0 {
		return received
	}
	when := status[0].Timestamp
	for _, s := range status {
		if s.LineNum > lineNum {
			break
		}
		when = s.Timestamp
	}
	return when
}

// MissingFraction reports the overall velocity-stream missing fraction
// for the run, used by the summary notification
func (t *CleanedTables) MissingFraction() float64 {
	missing, rows := 0, len(t.ADV)
	for _, r := range t.ADV {
		missing += r.Missing
	}
	if missing+rows == 0 {
		return 0
	}
	return float64(missing) / float64(missing+rows)
}
