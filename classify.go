// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Line classification and batch tagging
package main

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Field counts for each record signature, including the prefix field
const (
	statusFieldCount = 14
	rgaFieldCount    = 3
	turboFieldCount  = 6
	tempFieldCount   = 3
	postFieldCount   = 2
	advFieldCount    = 14
)

// IsGarbageLine reports whether a raw line matches one of the two known
// garbage patterns: a modem echo ("?" followed by 0 or 1) or a fragment
// of the pump vendor banner ("V:")
func IsGarbageLine(line string) bool {
	if strings.Contains(line, "?0") || strings.Contains(line, "?1") {
		return true
	}
	if strings.Contains(line, "V:") {
		return true
	}
	return false
}

// ClassifyLine assigns a record type from the line's prefix and field
// count.  Classification is a pure function of line content; anything
// that doesn't match a known signature is RecordUnknown.
func ClassifyLine(line string) (RecordType, []string) {
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "P":
		if len(fields) == postFieldCount {
			return RecordPostTime, fields
		}
	case "S":
		if len(fields) == statusFieldCount {
			return RecordStatus, fields
		}
	case "M":
		if len(fields) == rgaFieldCount {
			return RecordRGA, fields
		}
	case "T":
		if len(fields) == turboFieldCount {
			return RecordTurbo, fields
		}
	case "E":
		if len(fields) == tempFieldCount {
			return RecordTemp, fields
		}
	case "A":
		if len(fields) == advFieldCount {
			return RecordADV, fields
		}
	}
	return RecordUnknown, fields
}

// TagLines walks the raw feed and groups lines into transmission batches.
// Each post marker opens a new batch and carries that batch's server
// received time.  Lines arriving before any post marker land in a
// synthetic batch whose received time is the fetch time; in practice the
// relay always replays whole posts, so that batch is normally empty.
// Returns the batches sorted by received time, plus the count of lines
// dropped as garbage or unclassifiable.
func TagLines(raw string, fetched time.Time) (batches []Batch, dropped int) {

	cur := Batch{ID: 0, Received: fetched.UTC()}
	nextID := 1

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if IsGarbageLine(line) {
			dropped++
			continue
		}

		rt, fields := ClassifyLine(line)
		switch rt {

		case RecordUnknown:
			log.Debug("unclassifiable line dropped", "line", line)
			dropped++

		case RecordPostTime:
			// Close out the current batch and open a new one
			secs, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				log.Debug("bad post marker dropped", "line", line)
				dropped++
				continue
			}
			if len(cur.Lines) > 0 {
				batches = append(batches, cur)
			}
			cur = Batch{ID: nextID, Received: time.Unix(secs, 0).UTC()}
			nextID++

		default:
			cur.Lines = append(cur.Lines, TaggedLine{
				Type:    rt,
				BatchID: cur.ID,
				LineNum: len(cur.Lines),
				Fields:  fields,
			})
		}
	}
	if len(cur.Lines) > 0 {
		batches = append(batches, cur)
	}

	// The relay can replay posts out of order; sort rather than reject
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].Received.Before(batches[j].Received)
	})

	return batches, dropped
}
