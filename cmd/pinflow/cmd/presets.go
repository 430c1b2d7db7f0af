package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
)

// PresetsCmd lists the built-in color themes
var PresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in color themes",
	Long: `List the built-in color themes.

Select one in pinflow.yaml:

  preset: Luxury Dark

or set custom colors:

  colors:
    band: "#ffffff"
    text: "#1a1a1a"
    accent: "#e60023"
    url: "#666666"`,
	Run: func(cmd *cobra.Command, args []string) {
		current, _ := cfg.Theme()
		for _, p := range pinflow.Presets() {
			marker := " "
			if p.Theme == current {
				marker = "*"
			}
			line := fmt.Sprintf("%s %-13s band %s  text %s  accent %s  url %s",
				marker, p.Name, p.Theme.Band, p.Theme.Text, p.Theme.Accent, p.Theme.URL)
			if marker == "*" {
				color.Green("%s", line)
				continue
			}
			fmt.Println(line)
		}
	},
}
