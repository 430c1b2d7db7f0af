package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
)

var exportOutDir string

// ExportCmd is the parent command for exports
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pins as a CSV or a zip of images",
	Long: `Export pins.

  csv  - pinterest_upload_links.csv: keyword and public link per pin, oldest first
  zip  - pinterest_pins.zip: every composite as pin-<keyword>.jpg`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write pinterest_upload_links.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, pinflow.CSVFilename, (*pinflow.Manager).ExportCSV)
	},
}

var exportZipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Write pinterest_pins.zip",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, pinflow.ZipFilename, (*pinflow.Manager).ExportZip)
	},
}

type exportFunc func(*pinflow.Manager, context.Context, io.Writer) error

func runExport(cmd *cobra.Command, name string, export exportFunc) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	path := filepath.Join(exportOutDir, name)
	err = exportTo(path, func(f *os.File) error {
		return export(a.Manager, cmd.Context(), f)
	})
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	color.Green("Wrote %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return nil
}

func init() {
	ExportCmd.PersistentFlags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
	ExportCmd.AddCommand(exportCSVCmd)
	ExportCmd.AddCommand(exportZipCmd)
}
