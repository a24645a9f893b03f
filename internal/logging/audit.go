package logging

import (
	"context"
	"log/slog"

	"github.com/Sadman95/bike-island-server/domain"
)

// SlogAuditLogger implements domain.AuditLogger by writing one log record per event
type SlogAuditLogger struct {
	l *slog.Logger
}

func NewSlogAuditLogger(l *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{l: l.With("component", "audit")}
}

// LogEvent implements domain.AuditLogger
func (a *SlogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	attrs := []any{
		"event", string(event.EventType),
		"user_id", event.UserID,
		"success", event.Success,
		"at", event.Timestamp,
	}
	if event.Email != "" {
		attrs = append(attrs, "email", event.Email)
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, "error", event.ErrorMsg)
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, k, v)
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	a.l.Log(ctx, level, "audit", attrs...)
	return nil
}

var _ domain.AuditLogger = (*SlogAuditLogger)(nil)
