package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/draylabs/dray/pkg/log"
	"github.com/draylabs/dray/pkg/staging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stage, execute and unstage a task",
	Long: `Run drives the full staging protocol around a command: inputs are
staged into a fresh working directory, the command executes inside it, and
declared outputs are copied back to the target directory. Cache entries
populated for this task are reclaimed afterwards.

Examples:
  # Run a shell pipeline over staged inputs
  dray run -f task.yaml -- sh -c 'wc -l data/*.csv > counts.txt'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "Task definition file (required)")
	runCmd.Flags().Bool("keep-workdir", false, "Do not remove the working directory afterwards")
	_ = runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	task, err := loadTask(filename)
	if err != nil {
		return err
	}

	storageRoot, cache, session, err := stagingSetup(cmd)
	if err != nil {
		return err
	}

	strat := staging.NewStrategy(task, session, cache, storageRoot)
	workDir, err := strat.Stage(cmd.Context())
	if err != nil {
		return err
	}
	defer strat.CleanupCache()

	if keep, _ := cmd.Flags().GetBool("keep-workdir"); !keep {
		defer os.RemoveAll(workDir)
	}

	proc := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	proc.Dir = workDir
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr
	proc.Stdin = os.Stdin
	runErr := proc.Run()

	// Outputs are copied back even when the command failed; partial results
	// beat no results.
	outcomes, unstageErr := strat.Unstage(cmd.Context())
	if unstageErr != nil {
		log.Logger.Error().Err(unstageErr).Str("task", task.Identity()).Msg("unstage failed")
	}
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if len(outcomes) > 0 {
		fmt.Fprintf(os.Stderr, "dray: copied %d of %d outputs to %s\n",
			len(outcomes)-failed, len(outcomes), task.TargetDir)
	}

	if runErr != nil {
		return fmt.Errorf("task %s failed: %w", task.Identity(), runErr)
	}
	return unstageErr
}
