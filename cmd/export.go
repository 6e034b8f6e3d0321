package cmd

import (
	"fmt"
	"os"

	"dburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions as JSON or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	data, err := loadData()
	if err != nil {
		return err
	}

	out := os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch flagExportFormat {
	case "json":
		err = pipeline.ExportJSON(out, data.sessions, data.est)
	case "csv":
		err = pipeline.ExportCSV(out, data.sessions, data.est)
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", flagExportFormat)
	}
	if err != nil {
		return err
	}

	if flagExportOut != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Exported %d sessions to %s\n", len(data.sessions), flagExportOut)
	}
	return nil
}
