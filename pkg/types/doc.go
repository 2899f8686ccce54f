// Package types defines the shared data structures used across Dray.
//
// The central type is Task, the descriptor a worker node receives for one unit
// of work. Its file contract has three parts:
//
//	Inputs:    staged name -> source path (materialized before execution)
//	Outputs:   literal names or glob patterns (copied back after execution)
//	TargetDir: where output files land
//
// Sessions scope the node-local staging cache. All tasks staged under the same
// Session share cache entries for identical source paths; a new Session starts
// with a clean slate even on a shared cache root.
//
// # Usage
//
//	task := &types.Task{
//		ID:   uuid.New().String(),
//		Name: "train-model",
//		Inputs: map[string]string{
//			"data/train.csv": "/mnt/shared/datasets/train.csv",
//			"config.yaml":    "/mnt/shared/configs/model.yaml",
//		},
//		Outputs:   []string{"model.bin", "**/*.log"},
//		TargetDir: "/mnt/shared/results/train-model",
//	}
//
//	session := types.NewSession()
//
// # See Also
//
//   - pkg/staging: consumes Task and Session to run the stage/unstage protocol
//   - pkg/config: node configuration including the local storage root
//
// */
package types
