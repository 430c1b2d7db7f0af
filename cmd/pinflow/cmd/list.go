package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/datauri"
)

// ListCmd prints the stored pins, newest first
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored pins, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		pins, err := a.Pins().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(pins) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pins")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKEYWORD\tCREATED\tSIZE\tLINK")
		for _, p := range pins {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Keyword, humanize.Time(p.CreatedAt), pinSize(p), orDash(p.UploadLink))
		}
		return tw.Flush()
	},
}

func pinSize(p *pinflow.Pin) string {
	if !p.HasFinal() {
		return "-"
	}
	_, data, err := datauri.Parse(p.FinalImage)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(len(data)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
