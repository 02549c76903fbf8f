package insights

import (
	"fmt"
	"strings"
)

// TransportError wraps a single candidate's failure. The loader logs these
// and moves on to the next candidate.
type TransportError struct {
	Candidate string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Candidate, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DataUnavailable means every candidate was exhausted without a successful
// parse. Candidates preserves the attempted locations in original order so
// the caller can render them for diagnostics.
type DataUnavailable struct {
	Candidates []string
}

func (e *DataUnavailable) Error() string {
	return fmt.Sprintf("no insights data found, tried: %s", strings.Join(e.Candidates, ", "))
}
