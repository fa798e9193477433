package cmd

import (
	"github.com/marketpulse/crawler/cmd/crawl"
	"github.com/marketpulse/crawler/version"
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "run the extraction pipeline.",
	Long:  "walk the configured targets, extract records and persist them.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		crawl.Run(configPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() {
	var rootCmd = &cobra.Command{
		Use: "marketcrawler",
	}
	rootCmd.AddCommand(crawlCmd, versionCmd)
	rootCmd.Execute()
}

var configPath string

func init() {
	crawlCmd.Flags().StringVar(&configPath, "config", "config.toml", "set config file path")
}
