// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// GEMS lander telemetry report generator.  One-shot batch job: fetch the
// raw feed, run the pipeline, publish the page.  Invoked hourly by cron;
// a failed run produces nothing and the next invocation is the retry.
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {

	configPath := pflag.StringP("config", "c", "gems.yaml", "Path to the service configuration file")
	startFlag := pflag.String("start-date", "", "Override the configured start_date (RFC3339)")
	publishFlag := pflag.String("publish-dir", "", "Override the configured publish_dir")
	verbose := pflag.BoolP("verbose", "v", false, "Log per-line data-quality drops")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Error("startup", "err", err)
		os.Exit(1)
	}
	if *startFlag != "" {
		cfg.StartDate = *startFlag
	}
	if *publishFlag != "" {
		cfg.PublishDir = *publishFlag
	}

	if err := run(cfg); err != nil {
		log.Error("run aborted", "err", err)
		os.Exit(1)
	}
}

func run(cfg *ServiceConfig) error {

	runID := NewRunID()
	started := time.Now()
	log.Info("starting run", "run", runID)

	start, err := cfg.Start()
	if err != nil {
		return err
	}

	raw, err := FetchFeed(cfg.BaseURL, start)
	if err != nil {
		return err
	}

	tables := ProcessFeed(raw, time.Now().UTC(), MedianOffsetCorrector{})

	page, err := PublishReport(tables, cfg, DefaultRenderConfig(cfg.ReportTitle), runID)
	if err != nil {
		return err
	}

	NotifyRun(cfg, RunSummary{
		RunID:       runID,
		Generated:   NowInUTC(),
		Start:       start.Format(time.RFC3339),
		Batches:     len(tables.Batches),
		Status:      len(tables.Status),
		RGA:         len(tables.RGA),
		Turbo:       len(tables.Turbo),
		Temperature: len(tables.Temp),
		Velocity:    len(tables.ADV),
		Dropped:     tables.Dropped,
		MissingFrac: tables.MissingFraction(),
		Page:        page,
	})

	log.Info("run complete", "run", runID, "took", time.Since(started).Round(time.Millisecond))
	return nil
}
