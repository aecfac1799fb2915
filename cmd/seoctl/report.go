// Report and generation trigger commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Trigger content generation now",
	Long: `Generate runs the inventory top-up for all active campaigns immediately
instead of waiting for the next scheduler pass.`,
	RunE: runGenerate,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the production report",
	RunE:  runReport,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	resp, err := client.post("/api/generate", nil)
	if err != nil {
		return err
	}
	fmt.Printf("Generation triggered for %v campaigns\n", resp["campaigns"])
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	resp, err := client.get("/api/report")
	if err != nil {
		return err
	}
	return printJSON(resp)
}
