package cmd

import (
	"github.com/spf13/cobra"

	"rosterscraper/internal/pipeline"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Scrape the full profile of every player on a team page",
	Long: `Profile mode reads the roster table of a sofifa.com team page, visits each
player profile and exports ID, name, age, ratings, position, body data, foot,
skills, contract and nationality, sorted by player ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		return runVariant(cmd.Context(), pipeline.ProfileName, url)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringP("url", "u", "", "Team page URL on sofifa.com")
	_ = profileCmd.MarkFlagRequired("url")
}
