package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a required input dataset or credential that
// is absent before a stage starts. Always fatal; Hint names the
// prerequisite stage (or setting) to fix before retrying.
type ConfigurationError struct {
	Missing string
	Hint    string
}

func (e *ConfigurationError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("missing %s", e.Missing)
	}
	return fmt.Sprintf("missing %s: %s", e.Missing, e.Hint)
}

// SchemaError means the normalizer could not resolve a text-bearing
// column from the merged raw column set. Fatal, no output written.
type SchemaError struct {
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no text-bearing column found (have: %s)", strings.Join(e.Columns, ", "))
}

// ScoringServiceError is a call-level failure of the remote scoring
// service (network, auth, malformed response). Fatal for the scoring
// stage; the canonical dataset stays untouched for retry.
type ScoringServiceError struct {
	Batch int
	Err   error
}

func (e *ScoringServiceError) Error() string {
	return fmt.Sprintf("scoring service call failed (batch %d): %v", e.Batch, e.Err)
}

func (e *ScoringServiceError) Unwrap() error {
	return e.Err
}
