package staging

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/draylabs/dray/pkg/log"
	"github.com/draylabs/dray/pkg/metrics"
	"github.com/draylabs/dray/pkg/types"
)

// Strategy runs the stage/unstage protocol for exactly one task. Instances
// are not safe for concurrent use, but independent instances may run
// concurrently across tasks; the only shared state is the injected Cache.
type Strategy struct {
	task        *types.Task
	session     types.Session
	cache       *Cache
	storageRoot string

	workDir string
	tracked []string
	logger  zerolog.Logger
}

// NewStrategy binds a staging strategy to one task. storageRoot may be
// empty, in which case working directories are allocated under the system
// temp area.
func NewStrategy(task *types.Task, session types.Session, cache *Cache, storageRoot string) *Strategy {
	return &Strategy{
		task:        task,
		session:     session,
		cache:       cache,
		storageRoot: storageRoot,
		logger: log.WithComponent("staging").With().
			Str("task", task.Identity()).
			Str("session", string(session)).Logger(),
	}
}

// ResumeStrategy rebinds a strategy to an already-staged working directory,
// for callers that unstage in a different process from the one that staged.
// The new instance tracks no cache entries.
func ResumeStrategy(task *types.Task, session types.Session, cache *Cache, workDir string) *Strategy {
	s := NewStrategy(task, session, cache, "")
	s.workDir = workDir
	return s
}

// WorkDir returns the working directory created by the last Stage call, or
// empty if Stage has not run.
func (s *Strategy) WorkDir() string {
	return s.workDir
}

// Stage creates a fresh working directory and materializes the task's
// declared inputs into it as symlinks pointing into the node-local cache.
// A task with no inputs gets an empty working directory and no cache
// activity. Any failure is fatal and returned as a *StageError: a task must
// never start on top of a partially staged directory.
func (s *Strategy) Stage(ctx context.Context) (string, error) {
	timer := metrics.NewTimer()

	workDir, err := WorkRoot(s.storageRoot)
	if err != nil {
		return "", &StageError{Op: "workdir", Path: s.storageRoot, Err: err}
	}
	s.workDir = workDir

	if len(s.task.Inputs) == 0 {
		s.logger.Debug().Str("workdir", workDir).Msg("no inputs declared")
		return workDir, nil
	}

	for name, source := range s.task.Inputs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		entry, err := s.cache.Ensure(ctx, source, s.session)
		if err != nil {
			return "", &StageError{Op: "cache", Path: source, Err: err}
		}
		s.tracked = append(s.tracked, entry)

		dst := filepath.Join(workDir, filepath.FromSlash(name))
		if dir := filepath.Dir(dst); dir != workDir {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", &StageError{Op: "mkdir", Path: dir, Err: err}
			}
		}
		if err := os.Symlink(entry, dst); err != nil {
			return "", &StageError{Op: "symlink", Path: dst, Err: err}
		}
		metrics.FilesStaged.Inc()
	}

	timer.ObserveDuration(metrics.StageDuration)
	s.logger.Debug().Int("inputs", len(s.task.Inputs)).Str("workdir", workDir).Msg("staged inputs")
	return workDir, nil
}

// Outcome records one attempted output copy during Unstage. Path is the
// match's location relative to the working directory, always expressed as a
// slash-separated string so it stays meaningful when the working and target
// directories live in different filesystem namespaces.
type Outcome struct {
	Path string
	Err  error
}

// Unstage copies the task's declared outputs from the working directory to
// the task's target directory. Every output is attempted: a failed copy is
// logged with the file and task identity, recorded in the returned
// outcomes, and never interrupts the remaining matches. Only an uncreatable
// target directory (or cancellation) fails the call itself.
func (s *Strategy) Unstage(ctx context.Context) ([]Outcome, error) {
	if len(s.task.Outputs) == 0 {
		return nil, nil
	}

	timer := metrics.NewTimer()

	targetDir := s.task.TargetDir
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create target directory %s: %w", targetDir, err)
	}

	var outcomes []Outcome
	fsys := os.DirFS(s.workDir)
	for _, pattern := range s.task.Outputs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		matches, err := matchOutputs(fsys, pattern)
		if err != nil {
			s.logger.Warn().Err(err).Str("pattern", pattern).Msg("bad output pattern")
			outcomes = append(outcomes, Outcome{Path: pattern, Err: err})
			continue
		}
		if len(matches) == 0 && !hasGlobMeta(pattern) {
			// A literal output that matched nothing is still attempted, so
			// its absence surfaces as a logged copy failure.
			matches = []string{path.Clean(pattern)}
		}

		for _, rel := range matches {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}
			outcomes = append(outcomes, Outcome{Path: rel, Err: s.copyOutput(ctx, rel, targetDir)})
		}
	}

	timer.ObserveDuration(metrics.UnstageDuration)
	return outcomes, nil
}

// copyOutput copies one matched entry to targetDir/rel, creating parent
// directories as needed. rel is a slash path relative to the work dir.
func (s *Strategy) copyOutput(ctx context.Context, rel, targetDir string) error {
	src := filepath.Join(s.workDir, filepath.FromSlash(rel))
	dst := filepath.Join(targetDir, filepath.FromSlash(rel))

	err := os.MkdirAll(filepath.Dir(dst), 0755)
	if err == nil {
		err = copyEntry(ctx, src, dst)
	}
	if err != nil {
		metrics.UnstageFailures.Inc()
		s.logger.Warn().Err(err).Str("file", rel).Msg("failed to copy output")
		return err
	}
	metrics.FilesUnstaged.Inc()
	return nil
}

// CleanupCache removes the cache entries this strategy populated and clears
// the tracking list. Idempotent: with nothing tracked it touches nothing.
// Entries are private to this instance even though the cache directory is
// shared, so other strategies' entries are never affected.
func (s *Strategy) CleanupCache() {
	if len(s.tracked) == 0 {
		return
	}
	s.cache.Remove(s.tracked)
	s.tracked = nil
}

// matchOutputs applies an output pattern to the working directory and
// returns slash-relative matches. Recursive patterns (containing "**")
// match regular files only; everything else matches any entry type at the
// matched depth, including directories and links.
func matchOutputs(fsys fs.FS, pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	}
	return doublestar.Glob(fsys, pattern)
}

// hasGlobMeta reports whether pattern contains glob metacharacters.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
