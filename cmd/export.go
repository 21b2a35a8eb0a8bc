package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/export"
	"github.com/spf13/cobra"
)

var (
	format         string
	outputDir      string
	exportID       string
	exportPlatform string
	clearCache     bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export context reports to files",
	Long: `Export the classified contexts of events to various formats (` + strings.Join(export.Formats, ", ") + `).

Each event is written to report_<id>.<ext> in the output directory. Use
--out - to write every report to stdout instead. Use 'event-contexts list'
to see available event IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loader, err := newReportLoader(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = loader.Close() }()

		if clearCache {
			loader.ClearCache()
		}

		var reports []*internal.Report
		if exportID != "" {
			report, err := loader.Find(cmd.Context(), exportID)
			if err != nil {
				return err
			}
			reports = []*internal.Report{report}
		} else {
			all, err := loader.All(cmd.Context())
			if err != nil {
				return err
			}
			reports = filterPlatform(all, exportPlatform)
		}

		printer := internal.NewStatusPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if len(reports) == 0 {
			printer.Warning("No events to export")
			return nil
		}

		if outputDir == "-" {
			for _, report := range reports {
				if err := exporter.Export(report, cmd.OutOrStdout()); err != nil {
					return &internal.ExportError{Format: format, Path: "stdout", Err: err}
				}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		var failed int
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d report(s) to %s", len(reports), outputDir), func() error {
			for _, report := range reports {
				if err := exportReport(exporter, report, outputDir); err != nil {
					internal.LogError("%v", err)
					failed++
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if failed > 0 {
			return &internal.ExportError{
				Format: format,
				Path:   outputDir,
				Err:    fmt.Errorf("%d of %d report(s) failed", failed, len(reports)),
			}
		}

		printer.Success(fmt.Sprintf("Export complete: %d report(s) exported to %s", len(reports), outputDir))
		return nil
	},
}

func exportReport(exporter export.Exporter, report *internal.Report, dir string) error {
	name := fmt.Sprintf("report_%s.%s", internal.SafeFileName(report.ID), exporter.Extension())
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(report, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory, or - for stdout")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Export a single event by ID")
	exportCmd.Flags().StringVar(&exportPlatform, "platform", "", "Only export events from this platform")
	exportCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Rebuild reports instead of using the cache")
}
