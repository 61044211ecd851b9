package main

import (
	"fmt"
	"os"

	"github.com/aretw0/luckydraw/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP server",
	Long:  `Exposes draw sessions over a JSON API, with Server-Sent Events and Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		debug, _ := cmd.Flags().GetBool("debug")
		flowFile, _ := cmd.Flags().GetString("flow")
		maxSessions, _ := cmd.Flags().GetInt("max-sessions")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")

		err := cli.Serve(cli.ServeOptions{
			DataDir:       dataDir(cmd, args),
			FlowFile:      flowFile,
			Addr:          addr,
			Debug:         debug,
			Seed:          seed(cmd),
			MaxSessions:   maxSessions,
			SessionTTL:    ttl,
			SourceOptions: sourceOptions(cmd),
			Report:        reportOptions(cmd),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", cli.DefaultAddr, "Address to listen on")
	serveCmd.Flags().Int("max-sessions", cli.DefaultMaxSessions, "Maximum number of live sessions (negative for no limit)")
	serveCmd.Flags().Duration("session-ttl", cli.DefaultSessionTTL, "Idle time after which a session is dropped")
}
