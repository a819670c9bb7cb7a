// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Velocity stream reconciliation.  ADV records carry no clock at all,
// only a sequence count that wraps at 256.  Per-sample times are
// interpolated between the reconciled status timestamps, and gaps in the
// sequence count are surfaced as a missing-sample count rather than an
// error.
package main

import (
	"sort"
	"time"
)

const seqModulus = 256

// SeqGap returns the number of samples missing between two consecutive
// sequence counts.  Counts wrap at 256, so the gap is computed with
// modular arithmetic: 254,255,0,1 implies nothing missing, 5 then 9
// implies three dropped samples.
func SeqGap(prev, cur int) int {
	gap := ((cur-prev)%seqModulus + seqModulus) % seqModulus
	if gap == 0 {
		// Duplicate count; nothing provably missing
		return 0
	}
	return gap - 1
}

// ReconcileADV assigns per-sample timestamps and missing counts to the
// velocity rows of one batch.  Status rows must already be reconciled
// (ReconcileStatus) and both slices must belong to the same batch.
// Returns new rows, the inputs are not mutated.
//
// Each row is placed on a cumulative sample axis advanced by the modular
// sequence gap, then that axis is mapped onto time by interpolating
// between the sensor-clock timestamps of the surrounding status rows.
// Rows before the first anchor or after the last are clamped to it.
func ReconcileADV(received time.Time, status []StatusRow, adv []ADVRow) []ADVRow {
	if len(adv) == 0 {
		return nil
	}

	out := make([]ADVRow, len(adv))
	copy(out, adv)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNum < out[j].LineNum })

	// Missing counts and cumulative sample positions
	pos := make([]int, len(out))
	for i := 1; i < len(out); i++ {
		gap := ((out[i].Seq-out[i-1].Seq)%seqModulus + seqModulus) % seqModulus
		out[i].Missing = SeqGap(out[i-1].Seq, out[i].Seq)
		if gap == 0 {
			gap = 1
		}
		pos[i] = pos[i-1] + gap
	}

	// No usable anchors: every sample gets the batch received time
	if len(status) == 0 {
		for i := range out {
			out[i].Timestamp = received
		}
		return out
	}

	// Anchor each status row at the sample position of the nearest
	// velocity row at or before it in the raw stream
	anchors := make([]advAnchor, 0, len(status))
	for _, s := range status {
		p := 0
		for i := range out {
			if out[i].LineNum > s.LineNum {
				break
			}
			p = pos[i]
		}
		anchors = append(anchors, advAnchor{pos: p, when: s.ADVTimestamp})
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].pos < anchors[j].pos })

	for i := range out {
		out[i].Timestamp = interpolateAnchors(anchors, pos[i])
	}
	return out
}

type advAnchor struct {
	pos  int
	when time.Time
}

func interpolateAnchors(anchors []advAnchor, p int) time.Time {
	first, last := anchors[0], anchors[len(anchors)-1]
	if p <= first.pos {
		return first.when
	}
	if p >= last.pos {
		return last.when
	}
	for i := 1; i < len(anchors); i++ {
		a, b := anchors[i-1], anchors[i]
		if p > b.pos {
			continue
		}
		if b.pos == a.pos {
			return a.when
		}
		frac := float64(p-a.pos) / float64(b.pos-a.pos)
		return a.when.Add(time.Duration(frac * float64(b.when.Sub(a.when))))
	}
	return last.when
}
