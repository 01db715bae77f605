// Package tracking reads the scraper's download_results.csv tracking log and
// turns each row into a typed record at the boundary. Downstream code never
// sees raw CSV text.
package tracking

import (
	"strings"

	"github.com/poorstock/stockreport/internal/instant"
)

// Outcome is the recorded result of one processing attempt. Unknown means
// the success column held something other than true/false; such records are
// excluded from count metrics but kept for diagnostics.
type Outcome int

const (
	Unknown Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseOutcome accepts case-insensitive true/false. Anything else is Unknown.
func ParseOutcome(raw string) Outcome {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return Succeeded
	case "false":
		return Failed
	}
	return Unknown
}

// Record is one row of the tracking log with its time columns already
// normalized to the reference zone.
type Record struct {
	Line         int
	ArtifactName string
	LastUpdate   instant.Instant
	Outcome      Outcome
	ProcessTime  instant.Instant
}

// Counted reports whether the record participates in count metrics.
func (r *Record) Counted() bool {
	return r.Outcome != Unknown
}
