// Package observability holds the process-wide loggers.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger for command-line output. It writes to stderr so
// stdout stays free for payload data (downloads, listings, JSON).
// InitCLILogger replaces it; until then it is a no-op.
var CLILogger = zap.NewNop()

// InitCLILogger configures CLILogger. With verbose set, debug-level events
// are emitted.
func InitCLILogger(verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// Development config with static settings cannot fail to build;
		// keep the no-op logger if it ever does.
		return
	}
	CLILogger = logger
}

// Sync flushes buffered log entries. Call on process exit.
func Sync() {
	_ = CLILogger.Sync()
}
