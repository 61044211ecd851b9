package main

import (
	"fmt"
	"os"

	"github.com/aretw0/luckydraw/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the flow visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the steps and their dependencies.`,
	Run: func(cmd *cobra.Command, args []string) {
		flowFile, _ := cmd.Flags().GetString("flow")
		if err := cli.Graph(dataDir(cmd, args), flowFile, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
