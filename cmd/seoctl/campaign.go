// Campaign commands: start a new campaign, stop a running one.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	campaignName        string
	campaignStartDate   string
	campaignEndDate     string
	campaignFrequency   int
	campaignPublishTime string
	campaignWebsiteURL  string
	campaignChannels    []string
	campaignAutoApprove bool
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage campaigns",
}

var campaignStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Create and activate a campaign",
	Long: `Start creates a campaign and activates it immediately. The scheduler
begins topping up its content inventory on the next pass.

Example:
  seoctl campaign start --name "Spring launch" --start-date 2026-03-01 \
    --end-date 2026-03-31 --frequency 2 --channels website,twitter`,
	RunE: runCampaignStart,
}

var campaignStopCmd = &cobra.Command{
	Use:   "stop <campaign-id>",
	Short: "Deactivate a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignStop,
}

func init() {
	campaignStartCmd.Flags().StringVar(&campaignName, "name", "", "campaign name (required)")
	campaignStartCmd.Flags().StringVar(&campaignStartDate, "start-date", "", "first day, YYYY-MM-DD (required)")
	campaignStartCmd.Flags().StringVar(&campaignEndDate, "end-date", "", "last day, YYYY-MM-DD (required)")
	campaignStartCmd.Flags().IntVar(&campaignFrequency, "frequency", 1, "articles per day")
	campaignStartCmd.Flags().StringVar(&campaignPublishTime, "publish-time", "", "time of day for the first slot, HH:MM (default 10:00)")
	campaignStartCmd.Flags().StringVar(&campaignWebsiteURL, "website-url", "", "target website URL")
	campaignStartCmd.Flags().StringSliceVar(&campaignChannels, "channels", []string{"website"}, "distribution channels")
	campaignStartCmd.Flags().BoolVar(&campaignAutoApprove, "auto-approve", false, "skip manual review for generated records")
	_ = campaignStartCmd.MarkFlagRequired("name")
	_ = campaignStartCmd.MarkFlagRequired("start-date")
	_ = campaignStartCmd.MarkFlagRequired("end-date")

	campaignCmd.AddCommand(campaignStartCmd)
	campaignCmd.AddCommand(campaignStopCmd)
}

func runCampaignStart(cmd *cobra.Command, args []string) error {
	resp, err := client.post("/api/campaigns", map[string]any{
		"name":         campaignName,
		"start_date":   campaignStartDate,
		"end_date":     campaignEndDate,
		"frequency":    campaignFrequency,
		"publish_time": campaignPublishTime,
		"website_url":  campaignWebsiteURL,
		"channels":     campaignChannels,
		"auto_approve": campaignAutoApprove,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runCampaignStop(cmd *cobra.Command, args []string) error {
	resp, err := client.post(fmt.Sprintf("/api/campaigns/%s/stop", args[0]), nil)
	if err != nil {
		return err
	}
	return printJSON(resp)
}
