package report

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/poorstock/stockreport/internal/analyzer"
)

// WriteTable renders the summary as a terminal table.
func WriteTable(w io.Writer, rep *analyzer.Report) {
	s := rep.Snapshot
	rate, rateOK := s.SuccessRate()
	span, spanOK := s.Span()

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")

	table.Append("Total Stocks", comma(s.TotalItems))
	table.Append("Successful", comma(s.Successful)+" ("+Rate(rate, rateOK)+")")
	table.Append("Failed", comma(s.Failed))
	table.Append("Unprocessed", comma(s.Unprocessed))
	table.Append("MD Files Found", comma(s.ArtifactCount))
	table.Append("Last Updated", TimeAgo(rep.GeneratedAt, s.LastSuccess))
	table.Append("Processing Duration", Duration(span, spanOK))
	switch {
	case s.Error != "":
		table.Append("Status", "Error: "+s.Error)
	case s.Degraded:
		table.Append("Status", "Degraded: tracking log missing")
	}

	table.Render()
}
