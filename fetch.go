// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Raw feed download
package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// How long we're willing to wait for the relay before giving up on the
// whole run.  The hourly re-invocation is the retry mechanism.
const fetchTimeout = 2 * time.Minute

// FetchFeed downloads the newline-delimited raw feed, bounded at the
// earliest by start.  A failed fetch aborts the run; there is no retry.
func FetchFeed(baseURL string, start time.Time) (string, error) {

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("fetch: bad base url %q: %w", baseURL, err)
	}
	q := u.Query()
	q.Set("timestamp", fmt.Sprintf("%d", start.Unix()))
	u.RawQuery = q.Encode()

	log.Debug("fetching feed", "url", u.String())

	client := &http.Client{Timeout: fetchTimeout}
	rsp, err := client.Get(u.String())
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: relay returned %s", rsp.Status)
	}

	buf, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: reading body: %w", err)
	}

	log.Info("fetched feed", "bytes", len(buf))
	return string(buf), nil
}
