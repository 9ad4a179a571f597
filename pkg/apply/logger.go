// SPDX-License-Identifier: Apache-2.0

package apply

import "github.com/pterm/pterm"

// Logger reports the progress of an Apply run, mirroring the shape of the
// teacher's pkg/migrations.Logger interface (LogMigrationStart/Complete,
// Info) adapted to the apply executor's lifecycle.
type Logger interface {
	LogApplyStart(runID string, statementCount int)
	LogStatement(runID string, index int, statement string)
	LogApplyComplete(runID string, statementCount int)
	LogWarning(runID string, message string)

	Info(msg string, args ...any)
}

type ptermLogger struct {
	logger pterm.Logger
}

// NewLogger returns a Logger backed by pterm.DefaultLogger, the way the
// teacher's migrations.NewLogger does for migration output.
func NewLogger() Logger {
	return &ptermLogger{logger: pterm.DefaultLogger}
}

func (l *ptermLogger) LogApplyStart(runID string, statementCount int) {
	l.logger.Info("starting apply", l.logger.Args(
		"run_id", runID,
		"statement_count", statementCount,
	))
}

func (l *ptermLogger) LogStatement(runID string, index int, statement string) {
	l.logger.Info("executing statement", l.logger.Args(
		"run_id", runID,
		"index", index,
		"statement", statement,
	))
}

func (l *ptermLogger) LogApplyComplete(runID string, statementCount int) {
	l.logger.Info("apply complete", l.logger.Args(
		"run_id", runID,
		"statement_count", statementCount,
	))
}

func (l *ptermLogger) LogWarning(runID string, message string) {
	l.logger.Warn("apply warning", l.logger.Args(
		"run_id", runID,
		"message", message,
	))
}

func (l *ptermLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args...))
}

type noopLogger struct{}

// NewNoopLogger returns a Logger that discards everything, for tests —
// mirroring migrations.NewNoopLogger.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (noopLogger) LogApplyStart(string, int)         {}
func (noopLogger) LogStatement(string, int, string)  {}
func (noopLogger) LogApplyComplete(string, int)      {}
func (noopLogger) LogWarning(string, string)         {}
func (noopLogger) Info(string, ...any)               {}
