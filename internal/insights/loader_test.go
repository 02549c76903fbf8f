package insights

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTempPayload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadReturnsFirstSuccessfulCandidate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	good := writeTempPayload(t, "good.json", `{"basic_stats": {"total_movies": 42}}`)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"basic_stats": {"total_movies": 99}}`))
	}))
	defer server.Close()

	loader := &Loader{Log: io.Discard}
	payload, err := loader.Load([]string{missing, good, server.URL})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if payload.BasicStats == nil || payload.BasicStats.TotalMovies != 42 {
		t.Errorf("expected payload from second candidate, got %+v", payload.BasicStats)
	}
	if requests != 0 {
		t.Errorf("loader should not have fetched past the first success, got %d requests", requests)
	}
}

func TestLoadSkipsBadJSON(t *testing.T) {
	bad := writeTempPayload(t, "bad.json", `{not json`)
	good := writeTempPayload(t, "good.json", `{"generated_at": "2025-01-01"}`)

	loader := &Loader{Log: io.Discard}
	payload, err := loader.Load([]string{bad, good})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if payload.GeneratedAt != "2025-01-01" {
		t.Errorf("expected fallback to parseable candidate, got %q", payload.GeneratedAt)
	}
}

func TestLoadSkipsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	good := writeTempPayload(t, "good.json", `{"generated_at": "2025-06-01"}`)

	loader := &Loader{Log: io.Discard}
	payload, err := loader.Load([]string{server.URL, good})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if payload.GeneratedAt != "2025-06-01" {
		t.Errorf("expected file candidate after 404, got %q", payload.GeneratedAt)
	}
}

func TestLoadSendsNoCacheHeader(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Cache-Control")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	loader := &Loader{Log: io.Discard}
	if _, err := loader.Load([]string{server.URL}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if header != "no-cache" {
		t.Errorf("expected Cache-Control: no-cache, got %q", header)
	}
}

func TestLoadExhaustionListsAllCandidates(t *testing.T) {
	dir := t.TempDir()
	candidates := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "c.json"),
	}

	loader := &Loader{Log: io.Discard}
	_, err := loader.Load(candidates)
	if err == nil {
		t.Fatalf("Load should have failed with no candidates present")
	}

	var unavailable *DataUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected *DataUnavailable, got %T: %v", err, err)
	}
	if len(unavailable.Candidates) != len(candidates) {
		t.Fatalf("expected %d candidates, got %d", len(candidates), len(unavailable.Candidates))
	}
	for i, c := range candidates {
		if unavailable.Candidates[i] != c {
			t.Errorf("candidate %d: expected %s, got %s", i, c, unavailable.Candidates[i])
		}
	}
}
