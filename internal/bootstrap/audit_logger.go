package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OpsLog is an operational lifecycle event (startup, shutdown). It is
// unrelated to the per-request leave audit trail, which lives in the store.
type OpsLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type OpsLogger interface {
	Log(ctx context.Context, entry OpsLog)
}

type StdoutOpsLogger struct{}

func NewStdoutOpsLogger() *StdoutOpsLogger {
	return &StdoutOpsLogger{}
}

func (l *StdoutOpsLogger) Log(ctx context.Context, entry OpsLog) {
	zap.L().Named("ops").Info("lifecycle event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
