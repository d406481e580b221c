package cmd

import (
	"github.com/spf13/cobra"
	"lesson-generator/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lesson-generator",
		Short:         "generate interactive lessons from an outline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(transpile())
	rootCmd.AddCommand(generate(config))
	return rootCmd
}
