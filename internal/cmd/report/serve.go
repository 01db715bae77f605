package report

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal/report"
)

func newServeCommand() *cobra.Command {
	var (
		configPath string
		baseDir    string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the current status report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()
			l := logger.Named("stockreport.serve")

			c, err := loadConfig(configPath, baseDir)
			if err != nil {
				return err
			}

			a, err := newAnalyzer(c, l)
			if err != nil {
				return err
			}

			srv := report.NewServer(l, a)
			return srv.Start(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Base directory (overrides config)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
