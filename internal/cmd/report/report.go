package report

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal/analyzer"
	"github.com/poorstock/stockreport/internal/artifacts"
	"github.com/poorstock/stockreport/internal/config"
	"github.com/poorstock/stockreport/internal/instant"
	"github.com/poorstock/stockreport/internal/metrics"
	"github.com/poorstock/stockreport/internal/roster"
	"github.com/poorstock/stockreport/internal/tracking"
)

func NewCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "report",
		Short: "Builds status reports from the scraper's tracking log",
	}
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newServeCommand())
	return cmd
}

// loadConfig reads the config file when given, falling back to defaults, and
// lets --base-dir override the configured root.
func loadConfig(configPath, baseDir string) (*config.Stockreport, error) {
	c := config.Default()
	if configPath != "" {
		loaded, err := config.NewStockreportFromFile(configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	if baseDir != "" {
		c.Report.BaseDir = baseDir
	}
	return c, nil
}

// newAnalyzer wires the input sources the way the config describes them.
func newAnalyzer(c *config.Stockreport, l *zap.Logger) (*analyzer.Analyzer, error) {
	source, err := instant.ResolveZone(c.Global.Timezone.Source)
	if err != nil {
		return nil, err
	}
	reference, err := instant.ResolveZone(c.Global.Timezone.Reference)
	if err != nil {
		return nil, err
	}

	naming := artifacts.Naming{
		Prefix: c.Report.Artifacts.Prefix,
		Ext:    c.Report.Artifacts.Ext,
	}
	normalizer := instant.NewNormalizer(source, reference)

	window := metrics.WeekRolling
	if c.Report.WeekWindow == string(metrics.WeekCalendar) {
		window = metrics.WeekCalendar
	}

	return analyzer.New(
		analyzer.WithLogger(l),
		analyzer.WithTracking(tracking.NewSource(
			c.TrackingLogPath(),
			tracking.WithNormalizer(normalizer),
			tracking.WithLogger(l),
		)),
		analyzer.WithRoster(roster.NewLoader(
			c.MasterListPath(),
			roster.WithLogger(l),
		)),
		analyzer.WithCounter(artifacts.NewCounter(
			c.ArtifactsDir(),
			naming,
			artifacts.WithLogger(l),
		)),
		analyzer.WithNaming(naming),
		analyzer.WithWeekWindow(window),
		analyzer.WithReference(reference),
		analyzer.WithClock(time.Now),
	), nil
}
