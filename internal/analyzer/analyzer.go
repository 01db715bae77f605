// Package analyzer ties the input sources together: it reads one snapshot of
// the tracking log, the master list and the artifact directory, and derives
// the full status report.
//
// Inputs are read once per Run. The scraper may append a row while we read;
// that leaves the report stale by at most one row, which is accepted rather
// than coordinated with locking.
package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal"
	"github.com/poorstock/stockreport/internal/artifacts"
	"github.com/poorstock/stockreport/internal/metrics"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

// Report is everything one invocation derives. Built fresh every Run and
// immutable afterwards.
type Report struct {
	ID          uuid.UUID
	GeneratedAt time.Time

	Snapshot   metrics.Snapshot
	Breakdown  metrics.Breakdown
	Validation metrics.Validation

	Issues []internal.Issue
}

type Option func(*Analyzer)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

func WithTracking(src *tracking.Source) Option {
	return func(a *Analyzer) {
		a.tracking = src
	}
}

func WithRoster(loader *roster.Loader) Option {
	return func(a *Analyzer) {
		a.roster = loader
	}
}

func WithCounter(c *artifacts.Counter) Option {
	return func(a *Analyzer) {
		a.counter = c
	}
}

func WithNaming(n artifacts.Naming) Option {
	return func(a *Analyzer) {
		a.naming = n
	}
}

func WithWeekWindow(w metrics.WeekWindow) Option {
	return func(a *Analyzer) {
		a.window = w
	}
}

func WithReference(loc *time.Location) Option {
	return func(a *Analyzer) {
		a.reference = loc
	}
}

// WithClock overrides the time source. Tests inject a fixed clock so the
// today/this-week buckets are deterministic.
func WithClock(clock func() time.Time) Option {
	return func(a *Analyzer) {
		a.clock = clock
	}
}

type Analyzer struct {
	tracking *tracking.Source
	roster   *roster.Loader
	counter  *artifacts.Counter
	naming   artifacts.Naming
	window   metrics.WeekWindow

	reference *time.Location
	clock     func() time.Time
	logger    *zap.Logger
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		window:    metrics.WeekRolling,
		reference: time.UTC,
		clock:     time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run builds a best-effort report. Absent or unreadable inputs degrade to
// documented defaults and show up in Issues; an unreadable tracking log
// additionally carries its failure reason on the snapshot.
func (a *Analyzer) Run() (*Report, error) {
	rep := &Report{
		ID:          uuid.Must(uuid.NewUUID()),
		GeneratedAt: a.clock().In(a.reference),
	}

	items := roster.Empty()
	if a.roster != nil {
		loaded, issues, err := a.roster.Load()
		switch {
		case err == nil:
			items = loaded
			rep.Issues = append(rep.Issues, issues...)
		case isAbsent(err):
			rep.Issues = append(rep.Issues, absentIssue(err))
			a.logger.Warn("master list missing, total degraded to zero", zap.Error(err))
		case isFormat(err):
			rep.Issues = append(rep.Issues, formatIssue(err))
			a.logger.Warn("master list unreadable, total degraded to zero", zap.Error(err))
		default:
			return nil, err
		}
	}

	artifactCount := 0
	if a.counter != nil {
		n, err := a.counter.Count()
		switch {
		case err == nil:
			artifactCount = n
		case isAbsent(err):
			rep.Issues = append(rep.Issues, absentIssue(err))
			a.logger.Warn("artifact directory missing", zap.Error(err))
		default:
			return nil, err
		}
	}

	var records []*tracking.Record
	degraded := false
	logFailure := ""
	if a.tracking != nil {
		scan, err := a.tracking.Open()
		switch {
		case err == nil:
			records, err = scan.ReadAll()
			closeErr := scan.Close()
			if err != nil {
				return nil, err
			}
			if closeErr != nil {
				return nil, closeErr
			}
			rep.Issues = append(rep.Issues, scan.Issues()...)
			for _, rec := range records {
				if rec.Counted() {
					continue
				}
				rep.Issues = append(rep.Issues, internal.Issue{
					Kind:   internal.IssueRow,
					Source: "tracking-log",
					Line:   rec.Line,
					Detail: "success value not recognized, record excluded from counts",
				})
			}
		case isAbsent(err):
			degraded = true
			rep.Issues = append(rep.Issues, absentIssue(err))
			a.logger.Warn("tracking log missing, reporting zero records", zap.Error(err))
		case isFormat(err):
			// The log contributes nothing, but the master list and artifact
			// count are still reported.
			logFailure = err.Error()
			rep.Issues = append(rep.Issues, formatIssue(err))
			a.logger.Warn("tracking log unreadable, reporting zero records", zap.Error(err))
		default:
			return nil, err
		}
	}

	rep.Snapshot = metrics.Calculate(records, items, artifactCount)
	rep.Snapshot.Degraded = degraded
	rep.Snapshot.Error = logFailure
	rep.Validation = metrics.Validate(rep.Snapshot)
	rep.Breakdown = metrics.Analyze(records, items, a.naming, rep.GeneratedAt, a.window)

	if rep.Snapshot.Clamped {
		rep.Issues = append(rep.Issues, internal.Issue{
			Kind:   internal.IssueDiscrepancy,
			Detail: "tracking log holds more counted records than the master list has items",
		})
	}
	if !rep.Validation.Match {
		rep.Issues = append(rep.Issues, internal.Issue{
			Kind: internal.IssueDiscrepancy,
			Detail: discrepancyDetail(
				rep.Validation.Successful,
				rep.Validation.ArtifactCount,
				rep.Validation.Difference,
			),
		})
	}

	a.logger.Info("report built",
		zap.String("report_id", rep.ID.String()),
		zap.Int("total", rep.Snapshot.TotalItems),
		zap.Int("successful", rep.Snapshot.Successful),
		zap.Int("failed", rep.Snapshot.Failed),
		zap.Int("unprocessed", rep.Snapshot.Unprocessed),
		zap.Int("artifacts", rep.Snapshot.ArtifactCount),
		zap.Int("issues", len(rep.Issues)),
	)

	return rep, nil
}

func isAbsent(err error) bool {
	var absent *internal.AbsentInputError
	return errors.As(err, &absent)
}

func isFormat(err error) bool {
	var format *internal.FormatError
	return errors.As(err, &format)
}

func formatIssue(err error) internal.Issue {
	var format *internal.FormatError
	errors.As(err, &format)
	return internal.Issue{
		Kind:   internal.IssueFormat,
		Source: format.Source,
		Detail: format.Reason,
	}
}

func absentIssue(err error) internal.Issue {
	var absent *internal.AbsentInputError
	errors.As(err, &absent)
	return internal.Issue{
		Kind:   internal.IssueAbsentInput,
		Source: absent.Source,
		Detail: "not found: " + absent.Path,
	}
}

func discrepancyDetail(successful, artifactCount, difference int) string {
	return fmt.Sprintf(
		"recorded successes and artifacts on disk disagree: %d recorded vs %d files (difference %+d)",
		successful, artifactCount, difference,
	)
}
