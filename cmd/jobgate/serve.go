package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/v0xg/jobgate/internal/log"
	"github.com/v0xg/jobgate/internal/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.UI.Addr = addr
			}
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("→ Starting Job Application Automation Interface...")
			fmt.Printf("  Open http://%s in your browser\n", a.cfg.UI.Addr)
			return ui.New(a.dispatcher, ui.DefaultOptions, log.Logger).Run(ctx, a.cfg.UI.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: 127.0.0.1:7860)")
	return cmd
}
