package main

import (
	"github.com/spf13/cobra"
)

func newQueueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Print queue operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status [queue-id]",
		Short: "Show whether a print queue is active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			qid := a.queue
			if len(args) == 1 {
				qid = args[0]
			}
			resolved, err := c.ResolveQueue(qid)
			if err != nil {
				return err
			}
			active, err := c.IsQueueActive(cmd.Context(), resolved)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"queue_id": resolved, "active": active})
		},
	})

	return cmd
}
