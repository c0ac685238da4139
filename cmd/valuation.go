package cmd

import (
	"github.com/spf13/cobra"

	"rosterscraper/internal/pipeline"
)

var valuationCmd = &cobra.Command{
	Use:   "valuation",
	Short: "Scrape name, market value and wage of every player on a team page",
	Long: `Valuation mode collects the player links of a sofifa.com team page and
exports ID, name, value and wage in the order the players were visited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		return runVariant(cmd.Context(), pipeline.ValuationName, url)
	},
}

func init() {
	rootCmd.AddCommand(valuationCmd)
	valuationCmd.Flags().StringP("url", "u", "", "Team page URL on sofifa.com")
	_ = valuationCmd.MarkFlagRequired("url")
}
