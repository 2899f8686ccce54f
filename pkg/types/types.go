package types

import (
	"time"

	"github.com/google/uuid"
)

// Task represents one schedulable unit of work as seen by a worker node.
// The staging layer consumes only the file-contract fields (Inputs,
// Outputs, TargetDir); everything else belongs to the executor.
type Task struct {
	ID        string
	Name      string
	Labels    map[string]string
	CreatedAt time.Time

	// Inputs maps a staged name (a relative path inside the task's working
	// directory, possibly nested like "data/train.csv") to the source path
	// the content comes from. Source paths must be locally reachable, e.g.
	// on a shared or mounted filesystem.
	Inputs map[string]string

	// Outputs lists the files the task promises to produce, as literal
	// names or glob patterns relative to the working directory. Patterns
	// containing "**" match regular files at any depth; all other patterns
	// match any entry type at the matched depth.
	Outputs []string

	// TargetDir is the absolute path output files are copied back to.
	TargetDir string
}

// Identity returns the best human-readable handle for log output.
func (t *Task) Identity() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Session scopes cache-path derivation. Two stagings in different sessions
// never collide on disk even when they share a cache root, so stale entries
// from a previous run cannot be picked up by the next one.
type Session string

// NewSession mints a unique session identifier.
func NewSession() Session {
	return Session(uuid.New().String())
}

// TaskState represents the lifecycle state of a task on a worker node.
type TaskState string

const (
	TaskStatePending  TaskState = "pending"
	TaskStateStaging  TaskState = "staging"
	TaskStateRunning  TaskState = "running"
	TaskStateComplete TaskState = "complete"
	TaskStateFailed   TaskState = "failed"
)
