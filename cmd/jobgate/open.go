package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Open a URL in a new tab of your running Chrome (no auto-login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("→ Opening %s in existing Chrome...\n", args[0])
			fmt.Println(a.dispatcher.OpenExisting(cmd.Context(), args[0]))
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <url>",
		Short: "Open a URL in a separate automation browser and try to log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("→ Opening %s with auto-login (profile %s)...\n", args[0], a.cfg.Chrome.AutomationProfileDir)
			fmt.Println(a.dispatcher.AutoLogin(cmd.Context(), args[0]))
			return nil
		},
	}
}

func newProfileCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile-check",
		Short: "Close Chrome, then start it on your default profile to check that automation works",
		Long: `profile-check reads personal_info from the personal data file, force-closes
every running Chrome process, and opens Google with your default Chrome
profile for a few seconds. Save your work in Chrome before running it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("→ Checking Chrome profile %s...\n", a.cfg.Chrome.DefaultProfileDir)
			fmt.Println(a.dispatcher.ProfileCheck(cmd.Context()))
			return nil
		},
	}
}
