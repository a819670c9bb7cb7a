// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Per-type table extraction
package main

import (
	"strconv"

	"github.com/charmbracelet/log"
)

// Extraction parses only the fields relevant to each record type.  A row
// with any malformed numeric field fails extraction for that row only;
// the batch is never rejected.

type fieldParser struct {
	fields []string
	failed bool
}

func (p *fieldParser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.failed = true
	}
	return v
}

func (p *fieldParser) int(i int) int {
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.failed = true
	}
	return v
}

// ExtractStatus builds the status/navigation table from a batch
func ExtractStatus(b Batch) (rows []StatusRow) {
	for _, ln := range b.Lines {
		if ln.Type != RecordStatus {
			continue
		}
		p := fieldParser{fields: ln.Fields}
		row := StatusRow{
			BatchID:        ln.BatchID,
			LineNum:        ln.LineNum,
			Received:       b.Received,
			LanderDay:      p.int(1),
			LanderMonth:    p.int(2),
			LanderYear:     p.int(3),
			LanderHour:     p.int(4),
			LanderMin:      p.int(5),
			LanderSec:      p.int(6),
			ADVClock:       p.float(7),
			BatteryVoltage: p.float(8),
			Heading:        p.float(9),
			Pitch:          p.float(10),
			Roll:           p.float(11),
			SoundSpeed:     p.float(12),
			TempC:          p.float(13),
		}
		if p.failed {
			log.Debug("malformed status row dropped", "batch", ln.BatchID, "line", ln.LineNum)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ExtractRGA builds the mass-spec table from a batch.  Readings at
// unmonitored masses are a data-quality problem, not an error.
func ExtractRGA(b Batch) (rows []RGARow) {
	for _, ln := range b.Lines {
		if ln.Type != RecordRGA {
			continue
		}
		p := fieldParser{fields: ln.Fields}
		mass := p.int(1)
		current := p.float(2)
		if p.failed {
			log.Debug("malformed rga row dropped", "batch", ln.BatchID, "line", ln.LineNum)
			continue
		}
		if !IsMonitoredMass(mass) {
			log.Debug("rga reading at unmonitored mass dropped", "mass", mass, "batch", ln.BatchID)
			continue
		}
		rows = append(rows, RGARow{
			BatchID:    ln.BatchID,
			LineNum:    ln.LineNum,
			Mass:       mass,
			IonCurrent: current,
			Pressure:   IonCurrentToPressure(current),
		})
	}
	return rows
}

// ExtractTurbo builds the turbopump table from a batch
func ExtractTurbo(b Batch) (rows []TurboRow) {
	for _, ln := range b.Lines {
		if ln.Type != RecordTurbo {
			continue
		}
		p := fieldParser{fields: ln.Fields}
		row := TurboRow{
			BatchID:      ln.BatchID,
			LineNum:      ln.LineNum,
			SpeedHz:      p.float(1),
			PowerW:       p.float(2),
			BearingTempC: p.float(3),
			MotorTempC:   p.float(4),
			Voltage:      p.float(5),
		}
		if p.failed {
			log.Debug("malformed turbo row dropped", "batch", ln.BatchID, "line", ln.LineNum)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ExtractTemp builds the housing temperature table from a batch
func ExtractTemp(b Batch) (rows []TempRow) {
	for _, ln := range b.Lines {
		if ln.Type != RecordTemp {
			continue
		}
		p := fieldParser{fields: ln.Fields}
		row := TempRow{
			BatchID:          ln.BatchID,
			LineNum:          ln.LineNum,
			HousingTempC:     p.float(1),
			ElectronicsTempC: p.float(2),
		}
		if p.failed {
			log.Debug("malformed temperature row dropped", "batch", ln.BatchID, "line", ln.LineNum)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ExtractADV builds the velocity table from a batch
func ExtractADV(b Batch) (rows []ADVRow) {
	for _, ln := range b.Lines {
		if ln.Type != RecordADV {
			continue
		}
		p := fieldParser{fields: ln.Fields}
		row := ADVRow{
			BatchID:  ln.BatchID,
			LineNum:  ln.LineNum,
			Seq:      p.int(1),
			Pressure: p.float(2),
			Ana1:     p.float(3),
			Ana2:     p.float(4),
			VX:       p.float(5),
			VY:       p.float(6),
			VZ:       p.float(7),
			Amp:      [3]float64{p.float(8), p.float(9), p.float(10)},
			Cor:      [3]float64{p.float(11), p.float(12), p.float(13)},
		}
		if p.failed {
			log.Debug("malformed velocity row dropped", "batch", ln.BatchID, "line", ln.LineNum)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
