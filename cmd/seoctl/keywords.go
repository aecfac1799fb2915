// Keyword pool commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the keyword pool",
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Add keywords to the pool",
	Long: `Add appends keywords to the pool in the given order. Duplicates are
kept: selection order is insertion order.

Example:
  seoctl keywords add "best hiking boots" "trail running shoes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeywordsAdd,
}

func init() {
	keywordsCmd.AddCommand(keywordsAddCmd)
}

func runKeywordsAdd(cmd *cobra.Command, args []string) error {
	resp, err := client.post("/api/keywords", map[string]any{
		"keywords": args,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %v keywords\n", resp["added"])
	return nil
}
