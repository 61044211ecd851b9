package main

import (
	"fmt"
	"os"

	"github.com/aretw0/luckydraw/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run the interactive draw",
	Long:  `Walks the flow step by step: press Enter to draw each attribute, type exit to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")
		flowFile, _ := cmd.Flags().GetString("flow")
		delay, _ := cmd.Flags().GetDuration("delay")

		opts := cli.RunOptions{
			DataDir:       dataDir(cmd, args),
			FlowFile:      flowFile,
			Headless:      headless,
			JSON:          jsonMode,
			Debug:         debug,
			Delay:         delay,
			DelaySet:      cmd.Flags().Changed("delay"),
			Seed:          seed(cmd),
			SourceOptions: sourceOptions(cmd),
			Report:        reportOptions(cmd),
		}
		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Draw every step without waiting for Enter")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Duration("delay", 0, "Pause between draw and commit (default 1.5s, 0 when headless)")

	// 'run' is the default when no command is provided.
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
