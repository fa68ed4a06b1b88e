package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "kitchen-menu",
		Short:         "Menu browsing bot with per-chat catalog and filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand starts the bot.
		RunE: serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newReplayCmd())
	return root
}
