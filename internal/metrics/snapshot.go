// Package metrics derives the status snapshot from one immutable read of the
// tracking log, the master list and the artifact count. Everything here is a
// pure function of its inputs; the reference "now" is injected so results are
// deterministic.
package metrics

import "github.com/poorstock/stockreport/internal/instant"

// Snapshot is the computed point-in-time status. Built fresh on every
// invocation, never persisted, immutable once constructed.
type Snapshot struct {
	TotalItems  int `json:"total_stocks"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	Unprocessed int `json:"unprocessed"`

	// ArtifactCount is counted from disk, independently of the log.
	ArtifactCount int `json:"md_files_found"`

	// Clamped is set when the log held more counted records than the master
	// list has items, so Unprocessed was floored at zero.
	Clamped bool `json:"clamped,omitempty"`

	// Degraded is set when the tracking log was absent and the zero-record
	// default was substituted.
	Degraded bool `json:"degraded,omitempty"`

	// Error carries the failure reason when the tracking log was present but
	// its structure could not be read. The snapshot is still built from the
	// remaining inputs.
	Error string `json:"error,omitempty"`

	LastSuccess     instant.Instant `json:"-"`
	EarliestProcess instant.Instant `json:"-"`
	LatestProcess   instant.Instant `json:"-"`

	// DistinctProcessTimes counts distinct concrete process instants across
	// all counted records. Below two, the duration span is not a number.
	DistinctProcessTimes int `json:"-"`
}

// SuccessRate returns the percentage of master-list items successfully
// processed. Undefined (ok=false) when the master list is empty.
func (s Snapshot) SuccessRate() (float64, bool) {
	if s.TotalItems == 0 {
		return 0, false
	}
	return float64(s.Successful) / float64(s.TotalItems) * 100, true
}

// Validation is the advisory cross-check of the recorded success count
// against the artifacts on disk. It never blocks metric computation.
type Validation struct {
	Match         bool `json:"csv_vs_files_match"`
	Successful    int  `json:"csv_successful"`
	ArtifactCount int  `json:"md_files_found"`

	// Difference is signed: positive means more artifacts than recorded
	// successes.
	Difference int `json:"discrepancy"`
}

// Validate compares the snapshot's success count with the artifact count.
func Validate(s Snapshot) Validation {
	return Validation{
		Match:         s.Successful == s.ArtifactCount,
		Successful:    s.Successful,
		ArtifactCount: s.ArtifactCount,
		Difference:    s.ArtifactCount - s.Successful,
	}
}
