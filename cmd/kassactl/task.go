package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Fiscalization task operations",
	}

	var file string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Build a check from a JSON request and enqueue it",
		Long: `Reads a check request (the same JSON accepted by POST /v1/checks on the
gateway), builds the document locally and enqueues it in the print queue.`,
		Example: `  kassactl task submit --file check.json --queue main
  cat check.json | kassactl task submit --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readCheckRequest(cmd, file)
			if err != nil {
				return err
			}
			if req.ExternalID == "" {
				req.ExternalID = uuid.NewString()
			}

			doc, kind, err := services.BuildCheck(req)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			qid := req.QueueID
			if qid == "" {
				qid = a.queue
			}
			task, err := c.CreateTask(cmd.Context(), doc, qid)
			if err != nil {
				return err
			}

			a.logger.WithFields(logrus.Fields{
				"external_id": req.ExternalID,
				"kind":        kind,
				"task_id":     task.ID,
			}).Info("Task submitted")
			return printJSON(cmd, task)
		},
	}
	submit.Flags().StringVarP(&file, "file", "f", "-", "path to the check request JSON, - for stdin")

	info := &cobra.Command{
		Use:   "info <task-id>",
		Short: "Show the state and fiscal data of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ti, err := c.GetTaskInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, ti)
		},
	}

	cmd.AddCommand(submit, info)
	return cmd
}

func readCheckRequest(cmd *cobra.Command, path string) (*models.CreateCheckRequest, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var req models.CreateCheckRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("error decoding check request: %w", err)
	}
	return &req, nil
}
