package report

import (
	"encoding/json"
	"time"

	"github.com/poorstock/stockreport/internal"
	"github.com/poorstock/stockreport/internal/analyzer"
	"github.com/poorstock/stockreport/internal/metrics"
)

// Document is the JSON shape handed to machine consumers. Instants are
// rendered in the reference zone; sentinels become their fixed labels.
type Document struct {
	ReportID    string `json:"report_id"`
	GeneratedAt string `json:"generated_at"`

	Summary    Summary            `json:"summary"`
	Breakdown  BreakdownDoc       `json:"breakdown"`
	Validation metrics.Validation `json:"validation"`
	Issues     []internal.Issue   `json:"issues,omitempty"`
}

type Summary struct {
	TotalStocks        int    `json:"total_stocks"`
	Successful         int    `json:"successful"`
	Failed             int    `json:"failed"`
	Unprocessed        int    `json:"unprocessed"`
	MDFilesFound       int    `json:"md_files_found"`
	SuccessRate        string `json:"success_rate"`
	LastUpdated        string `json:"last_updated"`
	ProcessingDuration string `json:"processing_duration"`
	Degraded           bool   `json:"degraded,omitempty"`
	Error              string `json:"error,omitempty"`
}

type EntryDoc struct {
	StockID string `json:"stock_id"`
	Name    string `json:"name"`
	Date    string `json:"date"`
}

type BreakdownDoc struct {
	ProcessedToday    int        `json:"processed_today"`
	ProcessedThisWeek int        `json:"processed_this_week"`
	RecentSuccesses   []EntryDoc `json:"recent_successes"`
	FailedStocks      []EntryDoc `json:"failed_stocks"`
	UnprocessedStocks []string   `json:"unprocessed_stocks"`
}

// NewDocument flattens a report for serialization.
func NewDocument(rep *analyzer.Report) Document {
	s := rep.Snapshot
	rate, rateOK := s.SuccessRate()
	span, spanOK := s.Span()

	doc := Document{
		ReportID:    rep.ID.String(),
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		Summary: Summary{
			TotalStocks:        s.TotalItems,
			Successful:         s.Successful,
			Failed:             s.Failed,
			Unprocessed:        s.Unprocessed,
			MDFilesFound:       s.ArtifactCount,
			SuccessRate:        Rate(rate, rateOK),
			LastUpdated:        TimeAgo(rep.GeneratedAt, s.LastSuccess),
			ProcessingDuration: Duration(span, spanOK),
			Degraded:           s.Degraded,
			Error:              s.Error,
		},
		Breakdown: BreakdownDoc{
			ProcessedToday:    rep.Breakdown.ProcessedToday,
			ProcessedThisWeek: rep.Breakdown.ProcessedThisWeek,
			RecentSuccesses:   entryDocs(rep.Breakdown.RecentSuccesses),
			FailedStocks:      entryDocs(rep.Breakdown.FailedStocks),
			UnprocessedStocks: []string{},
		},
		Validation: rep.Validation,
		Issues:     rep.Issues,
	}

	for _, it := range rep.Breakdown.UnprocessedStocks {
		doc.Breakdown.UnprocessedStocks = append(doc.Breakdown.UnprocessedStocks, it.ID)
	}

	return doc
}

func entryDocs(entries []metrics.Entry) []EntryDoc {
	docs := make([]EntryDoc, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, EntryDoc{
			StockID: e.Item.ID,
			Name:    e.Item.Label,
			Date:    dateCell(e.At),
		})
	}
	return docs
}

// MarshalJSON renders the whole report as indented JSON.
func MarshalJSON(rep *analyzer.Report) ([]byte, error) {
	return json.MarshalIndent(NewDocument(rep), "", "  ")
}
