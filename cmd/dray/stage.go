package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draylabs/dray/pkg/staging"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage a task's input files into a working directory",
	Long: `Stage materializes a task's declared inputs into a fresh working
directory as symlinks into the node-local cache, and prints the directory.

Examples:
  # Stage inputs for a task
  dray stage -f task.yaml

  # Stage under a configured node-local storage root
  dray stage -f task.yaml --config /etc/dray/node.yaml`,
	RunE: runStage,
}

var unstageCmd = &cobra.Command{
	Use:   "unstage",
	Short: "Copy a task's output files back to its target directory",
	Long: `Unstage walks an existing working directory with the task's output
patterns and copies every match to the task's target directory. Copying is
best effort: failures are logged per file and do not abort the rest.

Examples:
  dray unstage -f task.yaml --workdir /tmp/dray-work-1234`,
	RunE: runUnstage,
}

func init() {
	stageCmd.Flags().StringP("file", "f", "", "Task definition file (required)")
	_ = stageCmd.MarkFlagRequired("file")

	unstageCmd.Flags().StringP("file", "f", "", "Task definition file (required)")
	unstageCmd.Flags().String("workdir", "", "Working directory the task ran in (required)")
	_ = unstageCmd.MarkFlagRequired("file")
	_ = unstageCmd.MarkFlagRequired("workdir")
}

func runStage(cmd *cobra.Command, args []string) error {
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

	fmt.Println(workDir)
	return nil
}

func runUnstage(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	task, err := loadTask(filename)
	if err != nil {
		return err
	}
	workDir, _ := cmd.Flags().GetString("workdir")

	_, cache, session, err := stagingSetup(cmd)
	if err != nil {
		return err
	}

	strat := staging.ResumeStrategy(task, session, cache, workDir)
	outcomes, err := strat.Unstage(cmd.Context())
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	fmt.Printf("Copied %d of %d outputs to %s\n", len(outcomes)-failed, len(outcomes), task.TargetDir)
	return nil
}
