package repl

import (
	"time"

	"go.uber.org/zap"

	"github.com/atinylittleshell/procsh/internal/audit"
)

// Audit failures never reach the user; they are logged and the command runs
// regardless.

func (r *REPL) startAudit(commandLine string) *audit.Record {
	if r.audit == nil {
		return nil
	}

	record, err := r.audit.Start(r.sessionID, commandLine, r.executor.Dir())
	if err != nil {
		r.logger.Warn("failed to record command start", zap.Error(err))
		return nil
	}
	return record
}

func (r *REPL) finishAudit(record *audit.Record, exitCode int, elapsed time.Duration) {
	if r.audit == nil || record == nil {
		return
	}

	if _, err := r.audit.Finish(record, exitCode, elapsed); err != nil {
		r.logger.Warn("failed to record command result", zap.Error(err))
	}
}
