package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-shop/internal/server"
)

var queueWorkersFlag int

// queue:work only makes sense with QUEUE_DRIVER=redis; the memory queue is
// private to one process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start a standalone queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		a.Deps.Queue.Run(ctx, workers)
		fmt.Fprintln(cmd.OutOrStdout(), "Queue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
