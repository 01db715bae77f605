package report

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal/analyzer"
	"github.com/poorstock/stockreport/internal/artifacts"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

func testAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	dir := t.TempDir()
	naming := artifacts.Naming{Prefix: "poorstock", Ext: ".md"}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "StockID_TWSE_TPEX.csv"),
		[]byte("id,label\nA,Alpha\nB,Beta\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "poorstock"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poorstock", "download_results.csv"),
		[]byte("filename,last_update_time,success,process_time\n"+
			"poorstock_A_Alpha.md,2025-01-15 08:00:00,true,2025-01-15 08:00:00\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poorstock", "poorstock_A_Alpha.md"), []byte("x"), 0644))

	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	return analyzer.New(
		analyzer.WithTracking(tracking.NewSource(filepath.Join(dir, "poorstock", "download_results.csv"))),
		analyzer.WithRoster(roster.NewLoader(filepath.Join(dir, "StockID_TWSE_TPEX.csv"))),
		analyzer.WithCounter(artifacts.NewCounter(filepath.Join(dir, "poorstock"), naming)),
		analyzer.WithNaming(naming),
		analyzer.WithClock(func() time.Time { return now }),
	)
}

func TestServer(t *testing.T) {
	srv := NewServer(zap.NewNop(), testAnalyzer(t))
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	t.Run("report endpoint", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/v1/report")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var doc Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Equal(t, 2, doc.Summary.TotalStocks)
		assert.Equal(t, 1, doc.Summary.Successful)
		assert.Equal(t, "50.0%", doc.Summary.SuccessRate)
	})

	t.Run("breakdown endpoint", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/v1/report/breakdown")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)

		var b BreakdownDoc
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
		assert.Equal(t, []string{"B"}, b.UnprocessedStocks)
	})
}
