package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// EditCmd applies a free-text edit to a pin's composite
var EditCmd = &cobra.Command{
	Use:   "edit <pin-id> <instruction>...",
	Short: "Edit a pin's composite with an instruction",
	Long: `Edit a pin's composite with an instruction.

The composite is sent to the image model together with the instruction and
replaced by the result. The pin's upload link is cleared, so the next
upload publishes the edited image.

Examples:
  pinflow edit 3f2a... make the band darker
  pinflow edit 3f2a... "add a sprig of rosemary to the top photo"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		pin, err := a.EditPin(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		color.Green("Edited %s (%s)", pin.Keyword, pin.ID)
		return nil
	},
}
