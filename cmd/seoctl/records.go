// Record review commands: approve and postpone generated content.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var postponeAt string

var approveCmd = &cobra.Command{
	Use:   "approve <record-id>",
	Short: "Approve a content record for publishing",
	Long: `Approve moves a pending record into the publish queue. A failed record
can also be approved, which retries it on its next scheduled slot.`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

var postponeCmd = &cobra.Command{
	Use:   "postpone <record-id>",
	Short: "Move a record's scheduled publish time",
	Long: `Postpone reschedules a record that has not started publishing yet.

Example:
  seoctl postpone 4f7c... --at 2026-03-05T10:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runPostpone,
}

func init() {
	postponeCmd.Flags().StringVar(&postponeAt, "at", "", "new publish instant, RFC3339 (required)")
	_ = postponeCmd.MarkFlagRequired("at")
}

func runApprove(cmd *cobra.Command, args []string) error {
	resp, err := client.post(fmt.Sprintf("/api/records/%s/approve", args[0]), nil)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runPostpone(cmd *cobra.Command, args []string) error {
	resp, err := client.post(fmt.Sprintf("/api/records/%s/postpone", args[0]), map[string]any{
		"scheduled_at": postponeAt,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}
