package functional_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
)

// The functional suite runs against an already-started platform instance.
// Point PLATFORM_URL at it (e.g. http://localhost:8080); without it every
// test is skipped so `go test ./...` stays hermetic.
var PlatformUrl = getEnv("PLATFORM_URL", "")

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func requirePlatform(t *testing.T) {
	t.Helper()
	if PlatformUrl == "" {
		t.Skip("PLATFORM_URL not set, skipping functional test")
	}
}

func sendRequest(t *testing.T, method, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := getEnv("PLATFORM_TOKEN", ""); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response %q: %v", string(raw), err)
		}
	}
	return resp.StatusCode, decoded
}

func apiURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", PlatformUrl, path)
}
