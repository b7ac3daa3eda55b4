package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

// LogSink writes audit entries and activities to the log. It stands in for
// collaborators that are not configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("sideeffect")}
}

func (s *LogSink) Log(_ context.Context, e sideeffect.AuditEntry) error {
	s.logger.Info("audit",
		zap.String("entity_type", e.EntityType),
		zap.Stringer("entity_id", e.EntityID),
		zap.String("action", e.Action),
		zap.Any("previous_values", e.PreviousValues),
		zap.Any("new_values", e.NewValues),
		zap.Stringer("changed_by", e.ChangedBy),
	)

	return nil
}

func (s *LogSink) Record(_ context.Context, a sideeffect.Activity) error {
	s.logger.Info("activity",
		zap.String("entity_type", a.EntityType),
		zap.Stringer("entity_id", a.EntityID),
		zap.String("activity_type", a.ActivityType),
		zap.String("title", a.Title),
		zap.Stringer("performed_by", a.PerformedBy),
	)

	return nil
}
