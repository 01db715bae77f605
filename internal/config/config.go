package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Logger struct {
	Level string `yaml:"level"`
}

type Timezone struct {
	// Source is the zone the tracking log writes timestamps in.
	Source string `yaml:"source"`
	// Reference is the zone all human-facing output uses.
	Reference string `yaml:"reference"`
}

type Global struct {
	Logger   Logger   `yaml:"logger"`
	Timezone Timezone `yaml:"timezone"`
}

type Artifacts struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Ext    string `yaml:"ext"`
}

type LocalPublisher struct {
	Path string `yaml:"path"`
}

type S3Publisher struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
}

type Publisher struct {
	Type  string         `yaml:"type"`
	Local LocalPublisher `yaml:"local"`
	S3    S3Publisher    `yaml:"s3"`
}

type Report struct {
	BaseDir     string    `yaml:"base_dir"`
	TrackingLog string    `yaml:"tracking_log"`
	MasterList  string    `yaml:"master_list"`
	Artifacts   Artifacts `yaml:"artifacts"`
	WeekWindow  string    `yaml:"week_window"`
	Publisher   Publisher `yaml:"publisher"`
}

type Stockreport struct {
	Global Global `yaml:"global"`
	Report Report `yaml:"report"`
}

// Default mirrors the layout the scraper produces: everything relative to the
// repository root, tracking log and artifacts under poorstock/.
func Default() *Stockreport {
	return &Stockreport{
		Global: Global{
			Logger: Logger{Level: "info"},
			Timezone: Timezone{
				Source:    "UTC",
				Reference: "Asia/Taipei",
			},
		},
		Report: Report{
			BaseDir:     ".",
			TrackingLog: filepath.Join("poorstock", "download_results.csv"),
			MasterList:  "StockID_TWSE_TPEX.csv",
			Artifacts: Artifacts{
				Dir:    "poorstock",
				Prefix: "poorstock",
				Ext:    ".md",
			},
			WeekWindow: "rolling",
			Publisher:  Publisher{Type: "stdout"},
		},
	}
}

// NewStockreportFromFile loads a config, overlaying the defaults.
func NewStockreportFromFile(fpath string) (*Stockreport, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, err
	}

	return c, nil
}

// TrackingLogPath resolves the tracking log against the base directory.
func (c *Stockreport) TrackingLogPath() string {
	return filepath.Join(c.Report.BaseDir, c.Report.TrackingLog)
}

func (c *Stockreport) MasterListPath() string {
	return filepath.Join(c.Report.BaseDir, c.Report.MasterList)
}

func (c *Stockreport) ArtifactsDir() string {
	return filepath.Join(c.Report.BaseDir, c.Report.Artifacts.Dir)
}
