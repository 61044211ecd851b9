package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/luckydraw"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of luckydraw",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("luckydraw version %s\n", strings.TrimSpace(luckydraw.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
