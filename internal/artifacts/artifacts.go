// Package artifacts implements the on-disk naming contract for scraper
// output: one markdown file per stock, named <prefix>_<id>_<label>.<ext>.
package artifacts

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal"
	"github.com/poorstock/stockreport/internal/roster"
)

const sourceName = "artifacts"

// Naming describes the artifact filename pattern.
type Naming struct {
	Prefix string
	Ext    string
}

// ExpectedName builds the artifact filename for an item.
func (n Naming) ExpectedName(it roster.Item) string {
	return n.Prefix + "_" + it.ID + "_" + it.Label + n.Ext
}

// ExtractID pulls the stock id out of an artifact filename. Matching trusts
// only the id segment, never the embedded label: labels are display text and
// may drift from the master list.
func (n Naming) ExtractID(name string) (string, bool) {
	if !strings.HasPrefix(name, n.Prefix+"_") || !strings.HasSuffix(name, n.Ext) {
		return "", false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, n.Prefix+"_"), n.Ext)
	id, _, found := strings.Cut(rest, "_")
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// Matches reports whether a directory entry name fits the pattern.
func (n Naming) Matches(name string) bool {
	_, ok := n.ExtractID(name)
	return ok
}

type CounterOption func(*Counter)

func WithLogger(logger *zap.Logger) CounterOption {
	return func(c *Counter) {
		c.logger = logger
	}
}

// Counter counts artifacts actually present in a directory. The engine only
// ever sees the resulting integer.
type Counter struct {
	Dir    string
	Naming Naming

	logger *zap.Logger
}

func NewCounter(dir string, naming Naming, opts ...CounterOption) *Counter {
	c := &Counter{
		Dir:    dir,
		Naming: naming,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Counter) Count() (int, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &internal.AbsentInputError{Source: sourceName, Path: c.Dir}
		}
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if c.Naming.Matches(e.Name()) {
			count++
		}
	}

	c.logger.Debug("artifacts counted",
		zap.String("dir", c.Dir),
		zap.Int("count", count),
	)
	return count, nil
}
