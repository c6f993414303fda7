package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site with an HTMX contact form",
	Long: `portfolio serves the personal site: the home page, the contact form
with inline validation and its notifications, the light/dark theme
preference, and a small admin dashboard for messages and visitor stats.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
}
