package cmd

import (
	"github.com/spf13/cobra"
	"lesson-generator/config"
	server2 "lesson-generator/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server and lesson event consumer",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
