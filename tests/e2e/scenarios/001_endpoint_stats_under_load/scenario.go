package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// ### Start - fixed configs (no change)
// These values define the request mix and must match the expected results below.
const (
	totalRequests = 3000 // Must be divisible by len(requestMix)
)

type plannedRequest struct {
	method     string
	path       string
	wantStatus int
	wantKey    string // endpoint metrics key the request must land in
}

var requestMix = []plannedRequest{
	{method: http.MethodGet, path: "/monitoring/endpoints", wantStatus: http.StatusOK, wantKey: "GET /monitoring/endpoints"},
	{method: http.MethodGet, path: "/monitoring/metrics", wantStatus: http.StatusOK, wantKey: "GET /monitoring/metrics"},
	{method: http.MethodGet, path: "/no/such/page", wantStatus: http.StatusNotFound, wantKey: "GET <unmatched>"},
	{method: http.MethodPut, path: "/monitoring/metrics", wantStatus: http.StatusMethodNotAllowed, wantKey: "PUT <unmatched>"},
	{method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK}, // skip-listed: not tracked
}

// ### End - fixed configs

type endpointSnapshot struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalErrors   int64   `json:"totalErrors"`
	ErrorRate     float64 `json:"errorRate"`
	MinDuration   int64   `json:"minDuration"`
	MaxDuration   int64   `json:"maxDuration"`
	P95Duration   int64   `json:"p95Duration"`
}

// main runs the e2e scenario: 001_endpoint_stats_under_load
//
// It resets the server's metrics, fires a fixed mix of requests in parallel and
// then checks the per-endpoint statistics against the mix.
//
// What it tests:
//   - Correlation ids are echoed verbatim on X-Request-ID
//   - Concurrent recording into the endpoint tracker loses no requests
//   - Unmatched paths collapse into one "<unmatched>" bucket per method
//   - Skip-listed paths are served but never tracked
//   - DELETE /monitoring/metrics empties the statistics
//
// Expected results:
//   - Every tracked key reports totalRequests = totalRequests / len(requestMix)
//   - 404/405 buckets report errorRate = 100, 200 buckets report errorRate = 0
//   - minDuration <= p95Duration <= maxDuration for every key
func main() {
	baseURL := getEnv("BASE_URL", "http://localhost:8080") // Base URL of the running server
	parallel := getEnvInt("PARALLEL", 8)                   // Number of concurrent requests in flight

	if totalRequests%len(requestMix) != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: totalRequests (%d) must be divisible by the request mix (%d)\n", totalRequests, len(requestMix))
		os.Exit(1)
	}
	perKey := int64(totalRequests / len(requestMix))

	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Println("Starting e2e scenario: 001_endpoint_stats_under_load")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("TOTAL_REQUESTS: %d\n", totalRequests)
	fmt.Println()

	if status, _, err := send(client, http.MethodDelete, baseURL+"/monitoring/metrics", ""); err != nil || status != http.StatusNoContent {
		fmt.Fprintf(os.Stderr, "ERROR: reset failed (status %d): %v\n", status, err)
		os.Exit(1)
	}

	// Create worker pool for parallel requests
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	var sent int64

	for i := 0; i < totalRequests; i++ {
		planned := requestMix[i%len(requestMix)]
		requestID := fmt.Sprintf("e2e-%06d", i)

		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(p plannedRequest, requestID string) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			status, echoed, err := send(client, p.method, baseURL+p.path, requestID)
			switch {
			case err != nil:
			case status != p.wantStatus:
				err = fmt.Errorf("%s %s: status %d, want %d", p.method, p.path, status, p.wantStatus)
			case echoed != requestID:
				err = fmt.Errorf("%s %s: X-Request-ID %q, want %q", p.method, p.path, echoed, requestID)
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			atomic.AddInt64(&sent, 1)
		}(planned, requestID)
	}

	// Wait for all requests to complete
	wg.Wait()

	if len(failures) > 0 {
		for _, err := range failures {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %d requests failed\n", len(failures))
		os.Exit(1)
	}
	fmt.Printf("Sent %d requests\n", atomic.LoadInt64(&sent))

	snapshot, err := fetchEndpoints(client, baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	var problems []string
	for _, p := range requestMix {
		if p.wantKey == "" {
			continue
		}
		got, ok := snapshot[p.wantKey]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: missing", p.wantKey))
			continue
		}
		if got.TotalRequests != perKey {
			problems = append(problems, fmt.Sprintf("%s: totalRequests %d, want %d", p.wantKey, got.TotalRequests, perKey))
		}
		wantRate := 0.0
		if p.wantStatus >= 400 {
			wantRate = 100
		}
		if got.ErrorRate != wantRate {
			problems = append(problems, fmt.Sprintf("%s: errorRate %.2f, want %.2f", p.wantKey, got.ErrorRate, wantRate))
		}
		if got.MinDuration > got.P95Duration || got.P95Duration > got.MaxDuration {
			problems = append(problems, fmt.Sprintf("%s: min %d, p95 %d, max %d out of order", p.wantKey, got.MinDuration, got.P95Duration, got.MaxDuration))
		}
	}
	if _, ok := snapshot["GET /healthz"]; ok {
		problems = append(problems, "GET /healthz: skip-listed path was tracked")
	}

	fmt.Println("=== Endpoint metrics ===")
	for key, s := range snapshot {
		fmt.Printf("%-32s total=%d errors=%d rate=%.2f min=%d p95=%d max=%d\n",
			key, s.TotalRequests, s.TotalErrors, s.ErrorRate, s.MinDuration, s.P95Duration, s.MaxDuration)
	}
	fmt.Println()

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "MISMATCH: %s\n", p)
		}
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// send returns the status code and the echoed X-Request-ID.
func send(client *http.Client, method, url, requestID string) (int, string, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, resp.Header.Get("X-Request-ID"), nil
}

func fetchEndpoints(client *http.Client, baseURL string) (map[string]endpointSnapshot, error) {
	resp, err := client.Get(baseURL + "/monitoring/endpoints")
	if err != nil {
		return nil, fmt.Errorf("fetch endpoint metrics: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch endpoint metrics: HTTP %d", resp.StatusCode)
	}

	var snapshot map[string]endpointSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode endpoint metrics: %w", err)
	}
	return snapshot, nil
}
