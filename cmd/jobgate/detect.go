package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/v0xg/jobgate/internal/heuristics"
	"github.com/v0xg/jobgate/internal/login"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file.html>",
		Short: "Run the login-page detector over a saved page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := login.SnapshotFromHTML(args[0], f)
			if err != nil {
				return fmt.Errorf("detect failed: %w", err)
			}
			logVerbose("  Title: %s", snap.Title)

			if kw, ok := login.DetectKeyword(snap, a.set.LoginKeywords); ok {
				fmt.Printf("✓ Login page (keyword %q)\n", kw)
			} else {
				fmt.Println("ℹ Not a login page")
			}
			if kw, ok := login.MatchKeyword(snap.HTML, a.set.ErrorKeywords); ok {
				fmt.Printf("⚠ Error keyword present: %q\n", kw)
			}
			return nil
		},
	}
}

func newHeuristicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heuristics",
		Short: "Manage the keyword and locator lists",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in heuristics to a YAML file for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "heuristics.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			fmt.Printf("→ Writing default heuristics to %s... ", path)
			f, err := os.Create(path)
			if err != nil {
				fmt.Println("failed")
				return err
			}
			if err := heuristics.WriteDefault(f); err != nil {
				f.Close()
				fmt.Println("failed")
				return fmt.Errorf("write heuristics: %w", err)
			}
			if err := f.Close(); err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Println("done")
			fmt.Printf("✓ Use it with --heuristics %s or JOBGATE_HEURISTICS=%s\n", path, path)
			return nil
		},
	})
	return cmd
}
