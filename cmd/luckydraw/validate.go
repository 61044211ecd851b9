package main

import (
	"fmt"
	"os"

	"github.com/aretw0/luckydraw/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the flow and its resources for consistency",
	Long: `Parses the flow definition, then crawls every resource a draw can reach and reports
missing or empty resources and values without a lookup entry.`,
	Run: func(cmd *cobra.Command, args []string) {
		flowFile, _ := cmd.Flags().GetString("flow")
		resources, _ := cmd.Flags().GetBool("resources")

		err := cli.Validate(cmd.Context(), cli.ValidateOptions{
			DataDir:       dataDir(cmd, args),
			FlowFile:      flowFile,
			Resources:     resources,
			SourceOptions: sourceOptions(cmd),
		}, os.Stdout)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Flow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("resources", true, "Also check every reachable resource")
}
