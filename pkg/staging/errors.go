package staging

import "fmt"

// StageError reports a fatal failure while materializing a task's inputs.
// A task whose inputs cannot be fully staged must not start execution, so
// these errors always propagate to the caller.
type StageError struct {
	Op   string // "workdir", "cache", "mkdir", "symlink"
	Path string // the offending path
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("staging failed: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
