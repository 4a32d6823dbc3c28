// Command syncpool pushes a meeting candidate pool to a running Minerva API.
// It reads a JSON file with the sync payload and POSTs it to /meetings/sync,
// authenticating with the pre-shared sync key. Intended to be run from cron
// or CI after exporting meetings from the conferencing platform.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type candidate struct {
	MeetingID string `json:"meetingId"`
	Topic     string `json:"topic"`
	HostID    string `json:"hostId,omitempty"`
	StartTime string `json:"startTime,omitempty"`
}

type host struct {
	HostID      string `json:"hostId"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

type payload struct {
	Candidates []candidate `json:"candidates"`
	Hosts      []host      `json:"hosts,omitempty"`
}

func main() {
	var (
		base    string
		file    string
		key     string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&file, "file", "pool.json", "Path to the candidate pool JSON file")
	flag.StringVar(&key, "key", os.Getenv("SYNC_API_KEY"), "Pre-shared sync key (defaults to SYNC_API_KEY)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if key == "" {
		log.Fatal("sync key is required: pass -key or set SYNC_API_KEY")
	}

	pool, err := loadPool(file)
	if err != nil {
		log.Fatalf("failed to load pool: %v", err)
	}

	body, err := json.Marshal(pool)
	if err != nil {
		log.Fatalf("failed to encode payload: %v", err)
	}

	url := strings.TrimRight(base, "/") + "/api/v1/meetings/sync"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sync-Key", key)

	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("sync request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("sync rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	fmt.Printf("synced %d candidates and %d hosts in %s\n", len(pool.Candidates), len(pool.Hosts), time.Since(start).Round(time.Millisecond))
}

func loadPool(path string) (*payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pool payload
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, err
	}
	if len(pool.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates defined in %s", path)
	}
	return &pool, nil
}
