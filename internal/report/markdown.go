package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/poorstock/stockreport/internal/analyzer"
	"github.com/poorstock/stockreport/internal/instant"
)

func comma(n int) string {
	return humanize.Comma(int64(n))
}

// SummaryTable renders the metric/value markdown table the README embeds.
func SummaryTable(rep *analyzer.Report) string {
	s := rep.Snapshot
	rate, ok := s.SuccessRate()

	lines := []string{
		"| Metric | Value |",
		"|--------|-------|",
		fmt.Sprintf("| Total Stocks | %s |", comma(s.TotalItems)),
		fmt.Sprintf("| Successful | %s (%s) |", comma(s.Successful), Rate(rate, ok)),
		fmt.Sprintf("| Failed | %s |", comma(s.Failed)),
		fmt.Sprintf("| Unprocessed | %s |", comma(s.Unprocessed)),
		fmt.Sprintf("| MD Files Found | %s |", comma(s.ArtifactCount)),
		fmt.Sprintf("| Last Updated | %s |", TimeAgo(rep.GeneratedAt, s.LastSuccess)),
		fmt.Sprintf("| Processing Duration | %s |", durationCell(rep)),
	}
	switch {
	case s.Error != "":
		lines = append(lines, fmt.Sprintf("| Status | Error: %s |", s.Error))
	case s.Degraded:
		lines = append(lines, "| Status | Degraded: tracking log missing |")
	}
	return strings.Join(lines, "\n")
}

func durationCell(rep *analyzer.Report) string {
	span, ok := rep.Snapshot.Span()
	return Duration(span, ok)
}

// Detailed renders the full markdown status report.
func Detailed(rep *analyzer.Report) string {
	s := rep.Snapshot
	b := rep.Breakdown
	rate, rateOK := s.SuccessRate()

	var out []string
	out = append(out,
		"# PoorStock Download Status Report",
		fmt.Sprintf("*Generated: %s*", rep.GeneratedAt.Format(instant.Layout)),
		"",
		"## Summary",
		fmt.Sprintf("**Total Stocks**: %s", comma(s.TotalItems)),
		fmt.Sprintf("**Successful**: %s (%s)", comma(s.Successful), Rate(rate, rateOK)),
		fmt.Sprintf("**Failed**: %s", comma(s.Failed)),
		fmt.Sprintf("**Unprocessed**: %s", comma(s.Unprocessed)),
		fmt.Sprintf("**MD Files Found**: %s", comma(s.ArtifactCount)),
		fmt.Sprintf("**Last Updated**: %s", TimeAgo(rep.GeneratedAt, s.LastSuccess)),
		fmt.Sprintf("**Processing Duration**: %s", durationCell(rep)),
	)
	if s.Error != "" {
		out = append(out, fmt.Sprintf("**Status**: Error: %s", s.Error))
	}
	out = append(out,
		"",
		"## Status Overview",
		SummaryTable(rep),
	)

	if !rep.Validation.Match {
		out = append(out,
			"",
			"## Validation Warning",
			fmt.Sprintf("CSV shows %d successful entries, but found %d MD files.",
				rep.Validation.Successful, rep.Validation.ArtifactCount),
			fmt.Sprintf("Discrepancy: %+d files", rep.Validation.Difference),
		)
	}

	out = append(out,
		"",
		"## Recent Activity",
		fmt.Sprintf("- **Processed Today**: %d stocks", b.ProcessedToday),
		fmt.Sprintf("- **Processed This Week**: %d stocks", b.ProcessedThisWeek),
		fmt.Sprintf("- **Failed Stocks**: %d stocks", len(b.FailedStocks)),
		fmt.Sprintf("- **Unprocessed**: %d stocks", len(b.UnprocessedStocks)),
	)

	if len(b.FailedStocks) > 0 {
		out = append(out, "", "### Recent Failures")
		for i, e := range b.FailedStocks {
			if i == 5 {
				break
			}
			out = append(out, fmt.Sprintf("- %s (%s) - %s", e.Item.ID, e.Item.Label, dateCell(e.At)))
		}
	}

	if len(b.UnprocessedStocks) > 0 {
		out = append(out, "", "### Sample Unprocessed Stocks")
		ids := make([]string, 0, 10)
		for i, it := range b.UnprocessedStocks {
			if i == 10 {
				break
			}
			ids = append(ids, it.ID)
		}
		out = append(out, "- "+strings.Join(ids, ", "))
		if more := len(b.UnprocessedStocks) - 10; more > 0 {
			out = append(out, fmt.Sprintf("- ... and %d more", more))
		}
	}

	if len(rep.Issues) > 0 {
		out = append(out, "", "## Issues")
		for _, is := range rep.Issues {
			out = append(out, "- "+is.String())
		}
	}

	out = append(out,
		"",
		"## Notes",
		"- **MD Files Found**: Actual markdown files in the poorstock/ directory",
		"- **Last Updated**: Relative time from the most recent successful processing",
		"- **Processing Duration**: Time span from first to last processing attempt",
		"- **Success Rate**: Percentage of the master list successfully processed",
	)

	return strings.Join(out, "\n")
}

func dateCell(at instant.Instant) string {
	t, ok := at.Time()
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
