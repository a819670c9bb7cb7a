// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

package main

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// NewRunID generates the short identifier stamped on the page and the
// run-summary notification
func NewRunID() string {
	return uuid.New().String()[:8]
}

// LogTime gets the current time in log format
func LogTime() string {
	return time.Now().Format(logDateFormat)
}

// NowInUTC gets the current time in UTC as a string formatted for artifacts
func NowInUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// MeanStd computes the mean and sample standard deviation of the values,
// ignoring NaNs.  Count is the number of values actually used.
func MeanStd(values []float64) (mean float64, stddev float64, count int) {
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean = sum / float64(count)
	if count < 2 {
		return mean, math.NaN(), count
	}
	ss := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		ss += d * d
	}
	stddev = math.Sqrt(ss / float64(count-1))
	return mean, stddev, count
}

// MeanTime averages a set of timestamps
func MeanTime(times []time.Time) time.Time {
	if len(times) == 0 {
		return time.Time{}
	}
	base := times[0]
	var total time.Duration
	for _, t := range times {
		total += t.Sub(base)
	}
	return base.Add(total / time.Duration(len(times))).UTC()
}
