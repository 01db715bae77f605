package metrics

import (
	"sort"
	"time"

	"github.com/poorstock/stockreport/internal/artifacts"
	"github.com/poorstock/stockreport/internal/instant"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

// WeekWindow selects how "processed this week" is bounded.
type WeekWindow string

const (
	// WeekRolling is the trailing 7-day window ending at now, inclusive.
	WeekRolling WeekWindow = "rolling"
	// WeekCalendar is the Monday-start calendar week containing now.
	WeekCalendar WeekWindow = "calendar"
)

// Entry pairs a master-list item with the instant its record carries.
type Entry struct {
	Item roster.Item
	At   instant.Instant
}

// Breakdown is the per-item classification of the snapshot.
type Breakdown struct {
	ProcessedToday    int
	ProcessedThisWeek int

	// RecentSuccesses holds successes within the week window, most recent
	// first, capped at ten.
	RecentSuccesses []Entry

	// FailedStocks holds failures most recent first, capped at ten. Records
	// without a parseable failure instant sort last.
	FailedStocks []Entry

	// UnprocessedStocks are master-list items with no counted record, in
	// master-list order.
	UnprocessedStocks []roster.Item
}

const entryCap = 10

// Analyze classifies every master-list item against the tracking records.
// Records are matched by the id extracted from the artifact name, never by
// the embedded label. now must already be in the reference zone.
func Analyze(records []*tracking.Record, r *roster.Roster, naming artifacts.Naming, now time.Time, window WeekWindow) Breakdown {
	byID := make(map[string]*tracking.Record, len(records))
	for _, rec := range records {
		id, ok := naming.ExtractID(rec.ArtifactName)
		if !ok {
			continue
		}
		if _, seen := byID[id]; seen {
			continue
		}
		byID[id] = rec
	}

	weekStart := weekStart(now, window)
	today := dateOf(now)

	var b Breakdown

	// Activity counters run over every counted record, on or off the master
	// list, since they describe what the batch actually did.
	for _, rec := range records {
		if !rec.Counted() {
			continue
		}
		t, ok := rec.ProcessTime.Time()
		if !ok {
			continue
		}
		if dateOf(t).Equal(today) {
			b.ProcessedToday++
		}
		if !t.Before(weekStart) && !t.After(now) {
			b.ProcessedThisWeek++
		}
	}

	for _, it := range r.Items() {
		rec, ok := byID[it.ID]
		if !ok || !rec.Counted() {
			b.UnprocessedStocks = append(b.UnprocessedStocks, it)
			continue
		}

		switch rec.Outcome {
		case tracking.Failed:
			b.FailedStocks = append(b.FailedStocks, Entry{Item: it, At: rec.ProcessTime})
		case tracking.Succeeded:
			if t, ok := rec.ProcessTime.Time(); ok && !t.Before(weekStart) && !t.After(now) {
				b.RecentSuccesses = append(b.RecentSuccesses, Entry{Item: it, At: rec.ProcessTime})
			}
		}
	}

	sortMostRecentFirst(b.FailedStocks)
	sortMostRecentFirst(b.RecentSuccesses)
	if len(b.FailedStocks) > entryCap {
		b.FailedStocks = b.FailedStocks[:entryCap]
	}
	if len(b.RecentSuccesses) > entryCap {
		b.RecentSuccesses = b.RecentSuccesses[:entryCap]
	}

	return b
}

func sortMostRecentFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, iok := entries[i].At.Time()
		tj, jok := entries[j].At.Time()
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func weekStart(now time.Time, window WeekWindow) time.Time {
	if window == WeekCalendar {
		day := dateOf(now)
		offset := (int(day.Weekday()) + 6) % 7 // Monday start
		return day.AddDate(0, 0, -offset)
	}
	return now.AddDate(0, 0, -7)
}
