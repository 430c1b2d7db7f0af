package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

// ClearCmd removes every stored pin
var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored pin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return fmt.Errorf("refusing to remove pins without --yes")
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
		return nil
	},
}

func init() {
	ClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Confirm removal")
}
