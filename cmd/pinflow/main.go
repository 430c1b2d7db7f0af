// pinflow - branded Pinterest pins from keyword lists
//
// Generates two photographs per keyword, composites them into a 1000x2000
// pin with a caption band, publishes the pins to a GitHub repository and
// exports the CSV Pinterest's bulk uploader reads.
package main

import (
	"os"

	"github.com/mhpenta/pinflow/cmd/pinflow/cmd"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pinflow",
		Short: "Generate, publish and export Pinterest pins",
		Long: `pinflow turns a list of keywords into branded Pinterest pins.

TYPICAL WORKFLOW:
  1. pinflow login --user alice --repo pins-cdn --token ghp_...
  2. pinflow generate --file keywords.txt --website www.example.com
  3. pinflow upload                 # publish and write pinterest_upload_links.csv
  4. pinflow export zip             # optional: download every pin

Settings are read from pinflow.yaml and .env in the working directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: cmd.Setup,
	}

	cmd.RegisterFlags(rootCmd)
	cmd.SetVersion(Version)

	rootCmd.AddCommand(cmd.VersionCmd)
	rootCmd.AddCommand(cmd.PresetsCmd)

	// Repository
	rootCmd.AddCommand(cmd.LoginCmd)
	rootCmd.AddCommand(cmd.LogoutCmd)

	// Pins
	rootCmd.AddCommand(cmd.GenerateCmd)
	rootCmd.AddCommand(cmd.ListCmd)
	rootCmd.AddCommand(cmd.EditCmd)
	rootCmd.AddCommand(cmd.ClearCmd)

	// Publishing
	rootCmd.AddCommand(cmd.UploadCmd)
	rootCmd.AddCommand(cmd.ExportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
