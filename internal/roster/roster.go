// Package roster loads the master list of stocks the scraper is expected to
// process (StockID_TWSE_TPEX.csv in production).
package roster

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal"
)

const sourceName = "master-list"

// Item is one stock of the master list.
type Item struct {
	ID    string `json:"stock_id"`
	Label string `json:"name"`
}

// Roster is the authoritative universe of work items, in source order.
//
// Total counts entries before dedup: the master list is source truth and its
// length is reported as-is. Duplicate ids are a data error; the first
// occurrence wins for matching and ordering.
type Roster struct {
	items []Item
	total int
	byID  map[string]Item
}

func New(items []Item) *Roster {
	r := &Roster{
		total: len(items),
		byID:  make(map[string]Item, len(items)),
	}
	for _, it := range items {
		if _, seen := r.byID[it.ID]; seen {
			continue
		}
		r.byID[it.ID] = it
		r.items = append(r.items, it)
	}
	return r
}

// Empty is the roster used when the master list is absent. Downstream
// percentage metrics come out undefined rather than dividing by zero.
func Empty() *Roster {
	return New(nil)
}

// Total is the number of master-list entries before dedup.
func (r *Roster) Total() int { return r.total }

// Items returns the deduplicated items in source order.
func (r *Roster) Items() []Item { return r.items }

// Lookup finds an item by id.
func (r *Roster) Lookup(id string) (Item, bool) {
	it, ok := r.byID[id]
	return it, ok
}

type LoaderOption func(*Loader)

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader reads a roster from a two-column CSV (id, label). Column order is
// fixed; the header row's names are not inspected.
type Loader struct {
	Path string

	logger *zap.Logger
}

func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		Path:   path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the master list. A single malformed row is skipped and reported
// as an issue, never promoted to a whole-input failure; FormatError is
// reserved for a header that cannot be read at all.
func (l *Loader) Load() (*Roster, []internal.Issue, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &internal.AbsentInputError{Source: sourceName, Path: l.Path}
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err == io.EOF {
		return Empty(), nil, nil
	} else if err != nil {
		return nil, nil, &internal.FormatError{Source: sourceName, Reason: err.Error()}
	}

	var items []Item
	var issues []internal.Issue
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			issues = append(issues, internal.Issue{
				Kind:   internal.IssueRow,
				Source: sourceName,
				Line:   line,
				Detail: err.Error(),
			})
			continue
		}
		if len(row) < 2 {
			issues = append(issues, internal.Issue{
				Kind:   internal.IssueRow,
				Source: sourceName,
				Line:   line,
				Detail: "row has fewer than two columns",
			})
			continue
		}
		items = append(items, Item{
			ID:    strings.TrimSpace(row[0]),
			Label: strings.TrimSpace(row[1]),
		})
	}

	roster := New(items)
	l.logger.Debug("master list loaded",
		zap.String("path", l.Path),
		zap.Int("total", roster.Total()),
		zap.Int("unique", len(roster.Items())),
		zap.Int("skipped", len(issues)),
	)
	return roster, issues, nil
}
