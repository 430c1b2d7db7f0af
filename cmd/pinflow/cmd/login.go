package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
)

var (
	loginUser  string
	loginRepo  string
	loginToken string
)

// LoginCmd verifies and stores repository credentials
var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Connect a GitHub repository to publish pins to",
	Long: `Connect a GitHub repository to publish pins to.

The repository must exist and must not be archived. Pins are committed to
branch main under pins/ and served from raw.githubusercontent.com.

The token may also be given in GITHUB_TOKEN.

Examples:
  pinflow login --user alice --repo pins-cdn --token ghp_...
  GITHUB_TOKEN=ghp_... pinflow login -u alice -r pins-cdn`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginToken == "" {
			loginToken = os.Getenv("GITHUB_TOKEN")
		}
		creds := pinflow.RepoCredentials{Username: loginUser, Repo: loginRepo, Token: loginToken}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Connect(cmd.Context(), creds); err != nil {
			if errors.Is(err, pinflow.ErrRepositoryUnavailable) {
				color.Red("Repository %s not found, not accessible or archived", creds)
			}
			return err
		}

		color.Green("Connected to %s", creds)
		return nil
	},
}

// LogoutCmd forgets the stored credentials
var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored repository credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Disconnect(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Disconnected")
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "GitHub user or organisation")
	LoginCmd.Flags().StringVarP(&loginRepo, "repo", "r", "", "Repository name")
	LoginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "Personal access token with contents write access")
	LoginCmd.MarkFlagRequired("user")
	LoginCmd.MarkFlagRequired("repo")
}
