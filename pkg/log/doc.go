/*
Package log provides structured logging for Dray using zerolog.

A single global logger is initialized once via Init and shared by all
packages. Child-logger helpers attach the fields most Dray logs carry:

	stagingLog := log.WithComponent("staging")
	stagingLog.Debug().Str("task_id", task.ID).Msg("staging inputs")

	taskLog := log.WithTaskID("task-def456")
	taskLog.Warn().Err(err).Str("file", name).Msg("failed to copy output")

JSON output is intended for production, console output for development:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Logging is entirely optional for library consumers: the zero-value Logger
is disabled, so the staging packages can be used without calling Init at
all (tests do exactly that) and log calls never change functional behavior.
*/
package log
