package metrics

import (
	"time"

	"github.com/poorstock/stockreport/internal/instant"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

// Calculate derives count and time metrics from one snapshot of inputs.
//
// Records with an unknown outcome are excluded from every count but their
// presence does not abort anything. Sentinel process times are excluded from
// min/max computations without dropping the record from the counts.
func Calculate(records []*tracking.Record, r *roster.Roster, artifactCount int) Snapshot {
	s := Snapshot{
		TotalItems:    r.Total(),
		ArtifactCount: artifactCount,
		LastSuccess:   instant.Sentinel(instant.Never),
	}

	distinct := make(map[time.Time]struct{})
	var successTimes, processTimes []instant.Instant

	for _, rec := range records {
		if !rec.Counted() {
			continue
		}
		switch rec.Outcome {
		case tracking.Succeeded:
			s.Successful++
			successTimes = append(successTimes, rec.ProcessTime)
		case tracking.Failed:
			s.Failed++
		}

		// Duration span covers all counted records regardless of outcome.
		if t, ok := rec.ProcessTime.Time(); ok {
			processTimes = append(processTimes, rec.ProcessTime)
			distinct[t] = struct{}{}
		}
	}

	s.Unprocessed = s.TotalItems - s.Successful - s.Failed
	if s.Unprocessed < 0 {
		s.Unprocessed = 0
		s.Clamped = true
	}

	s.LastSuccess = instant.Max(successTimes...)
	s.EarliestProcess = instant.Min(processTimes...)
	s.LatestProcess = instant.Max(processTimes...)
	s.DistinctProcessTimes = len(distinct)

	return s
}

// Span returns the processing duration from the earliest to the latest
// concrete process instant. ok is false when fewer than two distinct
// concrete instants exist; callers render a fixed label instead of implying
// an instantaneous batch.
func (s Snapshot) Span() (time.Duration, bool) {
	if s.DistinctProcessTimes < 2 {
		return 0, false
	}
	first, _ := s.EarliestProcess.Time()
	last, _ := s.LatestProcess.Time()
	return last.Sub(first), true
}
