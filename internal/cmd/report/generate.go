package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal/publish"
	"github.com/poorstock/stockreport/internal/report"
)

func newGenerateCommand() *cobra.Command {
	var (
		configPath   string
		baseDir      string
		outputPath   string
		detailed     bool
		updateReadme bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Analyzes the tracking log and emits a status report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()
			l := logger.Named("stockreport.generate")

			c, err := loadConfig(configPath, baseDir)
			if err != nil {
				return err
			}

			a, err := newAnalyzer(c, l)
			if err != nil {
				return err
			}

			rep, err := a.Run()
			if err != nil {
				return err
			}

			format := viper.GetString("format")
			var body []byte
			var name string
			switch format {
			case "json":
				body, err = report.MarshalJSON(rep)
				if err != nil {
					return err
				}
				name = "status-report.json"
			case "table":
				var buf bytes.Buffer
				report.WriteTable(&buf, rep)
				body = buf.Bytes()
				name = "status-report.txt"
			case "markdown":
				if detailed {
					body = []byte(report.Detailed(rep))
				} else {
					body = []byte(report.SummaryTable(rep))
				}
				body = append(body, '\n')
				name = "status-report.md"
			default:
				return fmt.Errorf("unknown format: %q", format)
			}

			var publisher publish.Publisher
			switch {
			case outputPath != "":
				publisher = publish.NewLocal(
					filepath.Dir(outputPath),
					publish.WithLocalLogger(l),
				)
				name = filepath.Base(outputPath)
			case c.Report.Publisher.Type == "local":
				publisher = publish.NewLocal(
					filepath.Join(c.Report.BaseDir, c.Report.Publisher.Local.Path),
					publish.WithLocalLogger(l),
				)
			case c.Report.Publisher.Type == "s3":
				publisher = publish.NewS3(
					publish.WithS3Logger(l),
					publish.WithRegion(c.Report.Publisher.S3.Region),
					publish.WithBucket(c.Report.Publisher.S3.Bucket),
					publish.WithPrefix(c.Report.Publisher.S3.Prefix),
					publish.WithEndpoint(c.Report.Publisher.S3.Endpoint),
				)
			default:
				publisher = publish.NewStdout()
			}

			if err := publisher.Write(ctx, name, bytes.NewReader(body)); err != nil {
				return err
			}

			if updateReadme {
				readme := filepath.Join(c.Report.BaseDir, "README.md")
				if err := report.UpdateReadme(readme, rep); err != nil {
					return err
				}
				l.Info("README status section updated", zap.String("path", readme))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Base directory (overrides config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save output to file (default: configured publisher)")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Generate detailed report with breakdown")
	cmd.Flags().BoolVar(&updateReadme, "update-readme", false, "Update the README.md status section")

	cmd.Flags().StringP("format", "f", "markdown", "Output format: table|markdown|json")
	viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("STOCKREPORT")

	return cmd
}
