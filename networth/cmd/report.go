package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hako/durafmt"
	"github.com/plenert-macdonald/networth/report"
	"github.com/spf13/cobra"
)

var outputPath string
var compressOutput bool

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the HTML net worth report",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, prices, err := loadLedger(cfg)
		if err != nil {
			return err
		}
		params, err := cfg.Params()
		if err != nil {
			return err
		}

		start := time.Now()
		data := report.Build(l, prices, params)

		path := outputPath
		if path == "" {
			path = cfg.ReportFile
		}
		if compressOutput && filepath.Ext(path) != ".br" {
			path += ".br"
		}
		if err := writeReport(path, data, compressOutput); err != nil {
			return err
		}

		slog.Info("Wrote report",
			"path", path,
			"months", len(data.Monthly.Rows),
			"took", durafmt.Parse(time.Since(start)).LimitFirstN(2).String())
		return nil
	},
}

func writeReport(path string, data *report.Data, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if compress {
		bw := report.NewCompressedWriter(f)
		defer func() {
			if cerr := bw.Close(); err == nil {
				err = cerr
			}
		}()
		w = bw
	}
	return report.WriteHTML(w, data)
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default is the configured report file).")
	reportCmd.Flags().BoolVar(&compressOutput, "compress", false, "Compress the report with brotli.")
}
