package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

// DoJSON sends payload (marshaled to JSON unless it is nil or already a
// []byte) and returns the status code and the raw response body.
func DoJSON(t testing.TB, method, url string, payload any) (int, []byte) {
	t.Helper()
	ctx := Context(t, 2*time.Second)
	var body io.Reader
	switch value := payload.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}

// DecodeJSON unmarshals body into target and fails the test on error.
func DecodeJSON(t testing.TB, body []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode response %s: %v", string(body), err)
	}
}
