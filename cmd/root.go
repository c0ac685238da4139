// Package cmd contains the command-line interface of rosterscraper.
// It uses the Cobra library for subcommands and flags.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var (
	configFile string
	outputDir  string

	rootCmd = &cobra.Command{
		Use:   "rosterscraper",
		Short: "rosterscraper scrapes sofifa.com team rosters into xlsx, txt and json.",
		Long: `A headless-browser scraper that reads a sofifa.com team page, visits every
player profile it lists and exports the collected rows in three formats.`,
		Version:      Version,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file (default is rosterscraper.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory to save output files (overrides config)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initConfig loads .env so ROSTER_* overrides can live in a file, then
// reports the config file in use.
func initConfig() {
	_ = godotenv.Load(".env")
	if configFile != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", configFile)
	}
}
