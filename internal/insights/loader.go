package insights

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultCandidates is where Load looks for the insights JSON when no
// explicit input is configured. Order matters: the first parseable document
// wins. The relative paths match where the analyze command and the site
// deployment put the file.
var DefaultCandidates = []string{
	"data/cinema_insights.json",
	"../data/cinema_insights.json",
	"pages/cinema_insights.json",
}

// Loader resolves the analytics payload from an ordered list of candidate
// locations. Each candidate is a filesystem path or an http(s) URL.
type Loader struct {
	Client *http.Client
	// Log receives one line per failed candidate. Defaults to stderr.
	Log io.Writer
}

// Load tries each candidate exactly once, in order, and returns the first
// successfully parsed payload. There is no retry and no backoff: a failed
// read, a non-2xx response, and a parse error are all treated the same way,
// logged and skipped. When every candidate fails, the returned error is a
// *DataUnavailable listing the attempted locations.
func (l *Loader) Load(candidates []string) (*Payload, error) {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	logw := l.Log
	if logw == nil {
		logw = os.Stderr
	}

	for _, candidate := range candidates {
		payload, err := l.loadOne(candidate)
		if err != nil {
			fmt.Fprintf(logw, "%v\n", &TransportError{Candidate: candidate, Err: err})
			continue
		}
		return payload, nil
	}

	return nil, &DataUnavailable{Candidates: append([]string(nil), candidates...)}
}

func (l *Loader) loadOne(candidate string) (*Payload, error) {
	var body []byte
	var err error
	if isURL(candidate) {
		body, err = l.fetch(candidate)
	} else {
		body, err = os.ReadFile(candidate)
	}
	if err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return &payload, nil
}

func (l *Loader) fetch(url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// The payload is regenerated in place, so never serve a cached copy.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isURL(candidate string) bool {
	return strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://")
}
