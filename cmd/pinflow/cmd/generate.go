package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
)

var (
	generateFile    string
	generateWebsite string
	generatePreset  string
)

// GenerateCmd produces one pin per keyword
var GenerateCmd = &cobra.Command{
	Use:   "generate [keyword]...",
	Short: "Generate a pin for every keyword",
	Long: `Generate a pin for every keyword.

Keywords come from the arguments, from --file (one per line) or, with
--file -, from standard input. Each keyword gets a top and a bottom
photograph and a composite with the keyword in the caption band.

Keywords are processed one at a time. A keyword that fails is reported and
the run continues with the next one.

Examples:
  pinflow generate "healthy dinner recipes" "cozy loft ideas"
  pinflow generate --file keywords.txt --website www.example.com
  cat keywords.txt | pinflow generate --file - --preset "Luxury Dark"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords, err := readKeywords(args, generateFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if generateWebsite != "" {
			cfg.Website = generateWebsite
		}
		if generatePreset != "" {
			cfg.Preset = generatePreset
			cfg.Colors = nil
		}
		pinCfg, err := cfg.PinConfig(keywords)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		report, err := a.GenerateBatch(cmd.Context(), pinCfg, func(s pinflow.State) {
			printState(out, s)
		})
		if report != nil {
			color.Cyan("Generated %d of %d pins in %s", len(report.Pins), len(keywords), report.Duration.Round(time.Millisecond))
			for _, f := range report.Failed {
				color.Red("  failed: %v", f)
			}
		}
		return err
	},
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Read keywords from file, one per line (- for stdin)")
	GenerateCmd.Flags().StringVarP(&generateWebsite, "website", "w", "", "Caption under the keyword (overrides config)")
	GenerateCmd.Flags().StringVarP(&generatePreset, "preset", "p", "", "Color preset (overrides config)")
}

// readKeywords merges args with the keywords of file.
func readKeywords(args []string, file string, stdin io.Reader) ([]string, error) {
	keywords := pinflow.ParseKeywords(strings.Join(args, "\n"))

	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("read keywords: %w", err)
		}
		keywords = append(keywords, pinflow.ParseKeywords(string(data))...)
	}

	if len(keywords) == 0 {
		return nil, pinflow.ErrNoKeywords
	}
	return keywords, nil
}

var stepLabels = map[pinflow.Step]string{
	pinflow.StepImage1:      "generating top photo",
	pinflow.StepImage2:      "generating bottom photo",
	pinflow.StepCompositing: "compositing",
}

func printState(w io.Writer, s pinflow.State) {
	switch s.Step {
	case pinflow.StepImage1, pinflow.StepImage2, pinflow.StepCompositing:
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", s.Current, s.Total, s.Keyword, stepLabels[s.Step])
	case pinflow.StepError:
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", s.Current, s.Total, s.Keyword, color.RedString("%v", s.Err))
	}
}
