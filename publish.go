// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Publishing into the static hosting directory
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// PublishReport renders the page and writes it, an archive copy, and the
// cleaned per-type CSV tables into the hosting directory.  The page is
// written to a temp file and renamed so the hosting target never serves
// a half-written document.
func PublishReport(t *CleanedTables, cfg *ServiceConfig, rc RenderConfig, runID string) (string, error) {

	if err := os.MkdirAll(cfg.PublishDir, 0777); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	var page bytes.Buffer
	if err := RenderReport(t, rc, runID, &page); err != nil {
		return "", err
	}

	index := filepath.Join(cfg.PublishDir, "index.html")
	if err := writeAtomic(index, page.Bytes()); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	// Archive copy, named by the configured strftime pattern
	pattern, err := strftime.New(cfg.ArchivePattern)
	if err != nil {
		return "", fmt.Errorf("publish: bad archive pattern %q: %w", cfg.ArchivePattern, err)
	}
	archive := filepath.Join(cfg.PublishDir, pattern.FormatString(time.Now().UTC()))
	if err := writeAtomic(archive, page.Bytes()); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	if err := WriteTables(t, cfg.PublishDir); err != nil {
		return "", fmt.Errorf("publish: tables: %w", err)
	}

	log.Info("published report", "page", index, "archive", archive, "bytes", page.Len())
	return index, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
