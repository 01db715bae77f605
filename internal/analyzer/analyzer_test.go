package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poorstock/stockreport/internal"
	"github.com/poorstock/stockreport/internal/artifacts"
	"github.com/poorstock/stockreport/internal/instant"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

var naming = artifacts.Naming{Prefix: "poorstock", Ext: ".md"}

type fixture struct {
	dir      string
	log      string
	list     string
	artifact string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "poorstock"), 0755))
	return fixture{
		dir:      dir,
		log:      filepath.Join(dir, "poorstock", "download_results.csv"),
		list:     filepath.Join(dir, "StockID_TWSE_TPEX.csv"),
		artifact: filepath.Join(dir, "poorstock"),
	}
}

func (f fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (f fixture) analyzer(t *testing.T, now time.Time, opts ...Option) *Analyzer {
	t.Helper()
	norm := instant.NewNormalizer(time.UTC, time.UTC)
	base := []Option{
		WithTracking(tracking.NewSource(f.log, tracking.WithNormalizer(norm))),
		WithRoster(roster.NewLoader(f.list)),
		WithCounter(artifacts.NewCounter(f.artifact, naming)),
		WithNaming(naming),
		WithClock(func() time.Time { return now }),
	}
	return New(append(base, opts...)...)
}

func TestRun(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("happy path", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\nC,Gamma\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n")
		f.write(t, filepath.Join(f.artifact, "poorstock_A_Alpha.md"), "x")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Equal(t, 3, rep.Snapshot.TotalItems)
		assert.Equal(t, 1, rep.Snapshot.Successful)
		assert.Equal(t, 2, rep.Snapshot.Unprocessed)
		assert.Equal(t, 1, rep.Snapshot.ArtifactCount)
		assert.True(t, rep.Validation.Match)
		assert.Empty(t, rep.Issues)
		assert.Equal(t, now, rep.GeneratedAt)
	})

	t.Run("absent tracking log degrades instead of failing", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.True(t, rep.Snapshot.Degraded)
		assert.Equal(t, 0, rep.Snapshot.Successful)
		assert.Equal(t, 2, rep.Snapshot.Unprocessed)
		require.NotEmpty(t, rep.Issues)
		assert.Equal(t, internal.IssueAbsentInput, rep.Issues[0].Kind)
	})

	t.Run("absent master list zeroes the total", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Equal(t, 0, rep.Snapshot.TotalItems)
		_, ok := rep.Snapshot.SuccessRate()
		assert.False(t, ok)
		// One success against zero items clamps unprocessed and flags it.
		assert.True(t, rep.Snapshot.Clamped)
	})

	t.Run("unreadable tracking log still yields a report", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")
		f.write(t, f.log, "not,a,tracking,log\nrow,row,row,row\n")
		f.write(t, filepath.Join(f.artifact, "poorstock_A_Alpha.md"), "x")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Contains(t, rep.Snapshot.Error, `required column "filename" missing from header`)
		assert.Equal(t, 0, rep.Snapshot.Successful)
		assert.Equal(t, 2, rep.Snapshot.TotalItems)
		assert.Equal(t, 2, rep.Snapshot.Unprocessed)
		assert.Equal(t, 1, rep.Snapshot.ArtifactCount)

		found := false
		for _, is := range rep.Issues {
			if is.Kind == internal.IssueFormat {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("malformed master list row is skipped, rest still counted", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\n9999\nB,Beta\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n")
		f.write(t, filepath.Join(f.artifact, "poorstock_A_Alpha.md"), "x")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Equal(t, 2, rep.Snapshot.TotalItems)
		assert.Equal(t, 1, rep.Snapshot.Successful)
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, internal.IssueRow, rep.Issues[0].Kind)
		assert.Equal(t, "master-list", rep.Issues[0].Source)
		assert.Equal(t, 3, rep.Issues[0].Line)
	})

	t.Run("discrepancy is advisory", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n")
		// Two artifacts on disk, one recorded success.
		f.write(t, filepath.Join(f.artifact, "poorstock_A_Alpha.md"), "x")
		f.write(t, filepath.Join(f.artifact, "poorstock_B_Beta.md"), "x")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.False(t, rep.Validation.Match)
		assert.Equal(t, 1, rep.Validation.Difference)
		assert.Equal(t, 1, rep.Snapshot.Successful)

		found := false
		for _, is := range rep.Issues {
			if is.Kind == internal.IssueDiscrepancy {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("bad rows surface as issues without aborting", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			",2025-01-15 08:00:00,true,2025-01-15 08:00:00\n"+
			"poorstock_B_Beta.md,2025-01-15 09:00:00,false,2025-01-15 09:00:00\n")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Equal(t, 1, rep.Snapshot.Failed)
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, internal.IssueRow, rep.Issues[0].Kind)
	})

	t.Run("unknown success values are diagnosed but not counted", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,maybe,2025-01-15 08:00:00\n")

		rep, err := f.analyzer(t, now).Run()
		require.NoError(t, err)

		assert.Equal(t, 0, rep.Snapshot.Successful)
		assert.Equal(t, 0, rep.Snapshot.Failed)
		assert.Equal(t, 2, rep.Snapshot.Unprocessed)
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, internal.IssueRow, rep.Issues[0].Kind)
		assert.Equal(t, 2, rep.Issues[0].Line)
	})

	t.Run("two runs over the same snapshot agree", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.list, "id,label\nA,Alpha\nB,Beta\n")
		f.write(t, f.log, "filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n"+
			"poorstock_B_Beta.md,2025-01-14 09:00:00,false,2025-01-14 09:00:00\n")

		a := f.analyzer(t, now)
		r1, err := a.Run()
		require.NoError(t, err)
		r2, err := a.Run()
		require.NoError(t, err)

		assert.Equal(t, r1.Snapshot, r2.Snapshot)
		assert.Equal(t, r1.Breakdown, r2.Breakdown)
		assert.Equal(t, r1.Validation, r2.Validation)
	})
}
