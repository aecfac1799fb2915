// Package main provides seoctl, the operator CLI for a running SEO Pilot
// server. All commands talk to the server's HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seopilot/seopilot/app/cfg"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// client is the shared API client, initialized on startup.
	client *apiClient
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seoctl",
	Short: "seoctl controls a running SEO Pilot server",
	Long: `seoctl is the operator CLI for SEO Pilot. It manages campaigns and the
keyword pool, reviews generated content, and pulls reports, all through
the server's HTTP API.`,
	PersistentPreRunE: initClient,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.seoctl.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(postponeCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("seoctl %s\n", cfg.GetVersion())
	},
}

// initClient loads config and prepares the API client.
func initClient(cmd *cobra.Command, args []string) error {
	// Version and init work without a reachable server
	if cmd.Name() == "version" || cmd.Name() == "init" {
		return nil
	}

	conf, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client = newAPIClient(conf.GetString(cfgKeyServerURL), conf.GetString(cfgKeyAPIKey))
	return nil
}
