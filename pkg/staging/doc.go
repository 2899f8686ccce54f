/*
Package staging materializes task files on a worker node.

Before a task runs, its declared input files are staged into a fresh,
exclusively owned working directory; after it runs, its declared outputs
are copied back to the task's target directory. A node-local cache
deduplicates staging of the same source file across tasks in one session.

# Architecture

	┌──────────────────── STAGING LAYER ───────────────────────┐
	│                                                          │
	│  ┌──────────────┐     one per task      ┌─────────────┐  │
	│  │   Strategy   │──────────────────────▶│   WorkDir   │  │
	│  │ Stage()      │  symlinks only        │  a.txt ────┐│  │
	│  │ Unstage()    │                       │  sub/b.txt─┼│  │
	│  │ CleanupCache │                       └────────────┼┘  │
	│  └──────┬───────┘                                    │   │
	│         │ Ensure(source, session)                    │   │
	│  ┌──────▼───────┐                                    │   │
	│  │    Cache     │  process-wide, session-scoped      │   │
	│  │  <session>/  │◀───────────────────────────────────┘   │
	│  │    <digest>-a.txt   one entry per source path         │
	│  └──────────────┘                                        │
	└──────────────────────────────────────────────────────────┘

The working directory never holds file content directly: every input is a
symlink (possibly under nested directories) into the cache. Cache entry
paths are a pure function of (source path, session, cache root), so two
tasks in the same session referencing the same source share one entry and
the file is copied once. Entries are populated by copying to a temporary
name and atomically renaming into place, so concurrent stagings of the same
source never expose a partial file.

# Lifecycle

	cache, err := staging.NewCache(staging.CacheRoot(procCacheDir, storageRoot))
	defer cache.Close()

	session := types.NewSession()
	strat := staging.NewStrategy(task, session, cache, storageRoot)

	workDir, err := strat.Stage(ctx)   // before execution; fatal on failure
	// ... run the task in workDir ...
	outcomes, err := strat.Unstage(ctx) // after execution; best effort
	strat.CleanupCache()                // when results are no longer needed

# Failure policy

Staging failures are fatal and surface as *StageError carrying the
offending path: a task must not start with a partially staged directory.
Unstaging is best effort: every declared output is attempted, each failure
is logged with file and task identity, and the per-item results come back
as []Outcome. Cache cleanup likewise logs and continues on per-entry
deletion failures.

Work-dir teardown is deliberately the caller's job: the executor decides
when a finished task's sandbox can go away.

# Output patterns

Outputs are literal names or glob patterns matched with doublestar against
the working directory. Patterns containing "**" recurse and match regular
files only; all other patterns match any entry type at the matched depth.
Matches are handled as slash-separated paths relative to the working
directory, never as native paths, because the working and target
directories may not share a filesystem namespace.
*/
package staging
