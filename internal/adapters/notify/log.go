package notify

import (
	"context"

	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a notifier logging through l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) {
	fields := []logger.Field{
		logger.String("id", note.ID),
		logger.String("title", note.Title),
		logger.String("message", note.Message),
	}
	if note.Level == LevelFailure {
		n.log.Warn(ctx, "notification", fields...)
	} else {
		n.log.Info(ctx, "notification", fields...)
	}
	metrics.RecordNotification(string(note.Level), "log")
}
