package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiBase string
	apiKey  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "pingme-cli",
	Short:        "Manage the websites monitored by pingme",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", envOr("API_BASE", "http://localhost:3000"), "pingme API base URL (env API_BASE)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", os.Getenv("API_KEY"), "API key (env API_KEY)")

	rootCmd.AddCommand(addCmd, removeCmd, listCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
