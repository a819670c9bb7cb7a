// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Service configuration parameters
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Log-related
const logDateFormat string = "2006-01-02 15:04:05"

// The monitored masses, in the order they are cycled through by the
// instrument.  18 is water and marks the start of each inlet cycle;
// 40 is argon, the inert flow-normalization reference.
var MonitoredMasses = []int{18, 28, 32, 40, 44}

// MassReference is the reference mass for ratio columns
const MassReference = 40

// MassCycleMarker is the mass whose recurrence starts a new inlet cycle
const MassCycleMarker = 18

// Ion current counts are in units of 1e-16 A; 0.0801 A/Torr is the
// fixed sensitivity of the analyzer
const ionCurrentScale = 1e-16
const ionCurrentSensitivity = 0.0801

// The inlet valve alternates on a fixed duty cycle within the hour
const inletPeriodMinutes = 7.5

// Received-time QC window.  Anything outside it is a corrupted relay
// timestamp, not a real observation.
var qcReceivedMin = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
var qcReceivedMax = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

// ServiceConfig is the on-disk configuration for one report run
type ServiceConfig struct {
	// Base URL of the relay's raw feed
	BaseURL string `yaml:"base_url"`

	// Earliest data to re-fetch on each run, RFC3339
	StartDate string `yaml:"start_date"`

	// Directory served by the static hosting target
	PublishDir string `yaml:"publish_dir"`

	// strftime pattern for the archived copy of the page
	ArchivePattern string `yaml:"archive_pattern"`

	// Optional run-summary notification
	MQTTBroker string `yaml:"mqtt_broker"`
	MQTTTopic  string `yaml:"mqtt_topic"`

	// Report appearance
	ReportTitle string `yaml:"report_title"`
}

// Load the service config, applying defaults for anything unset
func LoadConfig(path string) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		ArchivePattern: "gems-%Y-%m-%d-%H.html",
		MQTTTopic:      "gems/report",
		ReportTitle:    "GEMS Lander Telemetry",
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: can't read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("config: can't parse %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("config: base_url is required")
	}
	if cfg.PublishDir == "" {
		return nil, fmt.Errorf("config: publish_dir is required")
	}
	return cfg, nil
}

// Start returns the configured history bound
func (cfg *ServiceConfig) Start() (time.Time, error) {
	if cfg.StartDate == "" {
		return time.Time{}, fmt.Errorf("config: start_date is required")
	}
	t, err := time.Parse(time.RFC3339, cfg.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: bad start_date %q: %w", cfg.StartDate, err)
	}
	return t.UTC(), nil
}
