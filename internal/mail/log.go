package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

// LogMailer writes emails to the log instead of sending them. Meant for local
// development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, e domain.Email) error {
	fields := []zap.Field{
		zap.String("email#from", e.From.String()),
		zap.String("email#to", e.To.String()),
		zap.String("email#subject", e.Subject),
		zap.String("email#html", e.HTML),
	}
	if e.ReplyTo != nil {
		fields = append(fields, zap.String("email#reply_to", e.ReplyTo.String()))
	}

	m.logger.Info("email not sent (log transport)", fields...)
	return nil
}
