// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Cleaned-table CSV export.  Downstream collaborators consume these
// files plus the aggregate tables; they are rewritten on every run.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func csvNew(filename string, header string) (*os.File, error) {

	fd, err := os.OpenFile(filename, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}

	// Write the header
	fd.WriteString(header + "\r\n")

	return fd, nil
}

func csvTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// WriteTables writes one CSV per cleaned stream into dir
func WriteTables(t *CleanedTables, dir string) error {

	fd, err := csvNew(filepath.Join(dir, "status.csv"),
		"batch,timestamp,received,lander_time,adv_clock,battery_voltage,heading,pitch,roll,sound_speed,temperature")
	if err != nil {
		return err
	}
	for _, r := range t.Status {
		fd.WriteString(fmt.Sprintf("%d,%s,%s,%s,%f,%f,%f,%f,%f,%f,%f\r\n",
			r.BatchID, csvTime(r.Timestamp), csvTime(r.Received), csvTime(r.LanderTime()),
			r.ADVClock, r.BatteryVoltage, r.Heading, r.Pitch, r.Roll, r.SoundSpeed, r.TempC))
	}
	fd.Close()

	fd, err = csvNew(filepath.Join(dir, "rga.csv"),
		"batch,timestamp,mass,ion_current,pressure")
	if err != nil {
		return err
	}
	for _, r := range t.RGA {
		fd.WriteString(fmt.Sprintf("%d,%s,%d,%g,%g\r\n",
			r.BatchID, csvTime(r.Timestamp), r.Mass, r.IonCurrent, r.Pressure))
	}
	fd.Close()

	fd, err = csvNew(filepath.Join(dir, "turbo.csv"),
		"batch,timestamp,speed_hz,power_w,bearing_temp,motor_temp,voltage")
	if err != nil {
		return err
	}
	for _, r := range t.Turbo {
		fd.WriteString(fmt.Sprintf("%d,%s,%f,%f,%f,%f,%f\r\n",
			r.BatchID, csvTime(r.Timestamp), r.SpeedHz, r.PowerW, r.BearingTempC, r.MotorTempC, r.Voltage))
	}
	fd.Close()

	fd, err = csvNew(filepath.Join(dir, "temperature.csv"),
		"batch,timestamp,housing_temp,electronics_temp")
	if err != nil {
		return err
	}
	for _, r := range t.Temp {
		fd.WriteString(fmt.Sprintf("%d,%s,%f,%f\r\n",
			r.BatchID, csvTime(r.Timestamp), r.HousingTempC, r.ElectronicsTempC))
	}
	fd.Close()

	fd, err = csvNew(filepath.Join(dir, "velocity.csv"),
		"batch,timestamp,seq,missing,pressure,ana1,ana2,vx,vy,vz,amp1,amp2,amp3,cor1,cor2,cor3")
	if err != nil {
		return err
	}
	for _, r := range t.ADV {
		fd.WriteString(fmt.Sprintf("%d,%s,%d,%d,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f\r\n",
			r.BatchID, csvTime(r.Timestamp), r.Seq, r.Missing, r.Pressure, r.Ana1, r.Ana2,
			r.VX, r.VY, r.VZ, r.Amp[0], r.Amp[1], r.Amp[2], r.Cor[0], r.Cor[1], r.Cor[2]))
	}
	fd.Close()

	return nil
}
