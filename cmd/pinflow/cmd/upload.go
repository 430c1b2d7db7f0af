package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/config"
)

var (
	uploadOutDir string
	uploadNoCSV  bool
)

// UploadCmd publishes pending pins and writes the upload CSV
var UploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Publish pins without a link and write the upload CSV",
	Long: `Publish every pin that has a composite and no link yet, then write
pinterest_upload_links.csv mapping each keyword to its public image link.

Pins that fail are reported and left without a link; run upload again to
retry just those.

Examples:
  pinflow upload
  pinflow upload --out exports/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		creds, err := a.Credentials(cmd.Context())
		if errors.Is(err, pinflow.ErrNoCredentials) {
			return fmt.Errorf("%w: run pinflow login first", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report, err := a.UploadPending(cmd.Context(), creds, func(current, total int) {
			fmt.Fprintf(out, "\rUploading %d/%d", current, total)
		})
		fmt.Fprintln(out)
		if err != nil {
			return err
		}

		color.Cyan("Uploaded %d, skipped %d, failed %d", len(report.Uploaded), report.Skipped, len(report.Failed))
		for _, f := range report.Failed {
			color.Red("  failed: %v", f)
		}

		if uploadNoCSV {
			return nil
		}
		path := filepath.Join(uploadOutDir, pinflow.CSVFilename)
		if err := exportTo(path, func(f *os.File) error { return a.ExportCSV(cmd.Context(), f) }); err != nil {
			return err
		}
		color.Green("Wrote %s", path)
		return nil
	},
}

func init() {
	UploadCmd.Flags().StringVarP(&uploadOutDir, "out", "o", ".", "Directory for the CSV")
	UploadCmd.Flags().BoolVar(&uploadNoCSV, "no-csv", false, "Skip writing the CSV")
}

// exportTo creates path and its directory and hands the file to write.
func exportTo(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPerms); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
