package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "botfarm",
	Short: "Multi-protocol personal assistant gateway",
	Long: `Bot Farm unifies messages arriving from Telegram, web and
command-line clients into one canonical representation, routes them
through a single processor, and answers each in its own protocol.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".botfarm.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
