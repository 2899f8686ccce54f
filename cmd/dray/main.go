package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draylabs/dray/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dray",
	Short: "Dray - per-task local file staging for distributed executors",
	Long: `Dray stages a task's declared input files into an isolated working
directory before the task runs, and copies its declared output files back
to a target directory afterwards. A node-local cache deduplicates repeated
staging of the same source file within one session.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{
			Level:      log.Level(level),
			JSONOutput: jsonOut,
			Output:     os.Stderr,
		})
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Dray version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "Node configuration file (YAML)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Staging cache directory (default: under the system temp area)")
	rootCmd.PersistentFlags().String("session", "", "Session identifier (default: a fresh one per invocation)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")

	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(unstageCmd)
	rootCmd.AddCommand(runCmd)
}
