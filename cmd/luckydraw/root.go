package main

import (
	"fmt"
	"os"

	"github.com/aretw0/luckydraw/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "luckydraw",
	Short: "luckydraw picks a random configuration, one attribute at a time",
	Long: `luckydraw walks the steps of a flow (brand, series, CPU...), draws one candidate
per step from a text resource and prints the resulting configuration.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Data directory containing flow.yaml and the resources")
	flags.String("flow", "", "Flow definition file (default <dir>/flow.yaml)")
	flags.Bool("debug", false, "Enable debug logging to stderr")
	flags.String("source", cli.SourceFile, "Resource source: file, http or redis")
	flags.String("url", "", "Base URL of the resources (--source=http)")
	flags.String("redis-addr", "", "Redis address (--source=redis)")
	flags.String("redis-prefix", "", "Key prefix of the resources in Redis")
	flags.Int("redis-db", 0, "Redis database")
	flags.Uint64("seed", 0, "Seed for reproducible draws")
	flags.String("title", "", "Title of the final report")
	flags.String("sentinel", "", "Marker for steps without a pick (default \"unset\")")
	flags.Int("width", 0, "Display width keys are padded to in the report (default 14)")
}

// dataDir returns --dir, or the first argument when --dir was not given.
func dataDir(cmd *cobra.Command, args []string) string {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	return dir
}

func sourceOptions(cmd *cobra.Command) cli.SourceOptions {
	source, _ := cmd.Flags().GetString("source")
	url, _ := cmd.Flags().GetString("url")
	addr, _ := cmd.Flags().GetString("redis-addr")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	db, _ := cmd.Flags().GetInt("redis-db")
	return cli.SourceOptions{
		Source:      source,
		URL:         url,
		RedisAddr:   addr,
		RedisPrefix: prefix,
		RedisDB:     db,
	}
}

func reportOptions(cmd *cobra.Command) cli.ReportOptions {
	title, _ := cmd.Flags().GetString("title")
	sentinel, _ := cmd.Flags().GetString("sentinel")
	width, _ := cmd.Flags().GetInt("width")
	return cli.ReportOptions{Title: title, Sentinel: sentinel, Width: width}
}

// seed is nil unless --seed was given, so draws stay random by default.
func seed(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	s, _ := cmd.Flags().GetUint64("seed")
	return &s
}
