// Package contact sends the two emails that make up a contact form
// submission: a notification to the school and an auto-reply to the sender.
package contact

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

type Config struct {
	// DestEmail receives every notification.
	DestEmail string
	// ServiceAccount is the relay account the auto-reply is sent from.
	ServiceAccount    string
	AutoReplyFromName string
	// MailTimeout bounds each individual send. Zero disables it.
	MailTimeout time.Duration
}

type Service struct {
	cfg    Config
	mailer domain.Mailer
	logger *zap.Logger
	statsd statsd.ClientInterface
	tracer trace.Tracer
}

var _ domain.ContactService = (*Service)(nil)

func NewService(cfg Config, mailer domain.Mailer, logger *zap.Logger, statsd statsd.ClientInterface) *Service {
	return &Service{
		cfg:    cfg,
		mailer: mailer,
		logger: logger,
		statsd: statsd,
		tracer: otel.Tracer("github.com/bomis-pampore/website-backend/internal/contact"),
	}
}

// Submit validates cs, then sends the notification and, only if that worked,
// the auto-reply. The first failure is returned as a *domain.MailDeliveryError.
func (s *Service) Submit(ctx context.Context, cs domain.ContactSubmission) error {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if err := cs.Validate(); err != nil {
		_ = s.statsd.Incr("contact.submissions", []string{"result:invalid"}, 1)
		span.SetStatus(codes.Error, "invalid submission")
		return err
	}

	if err := s.send(ctx, domain.NotificationMail, s.notification(cs)); err != nil {
		_ = s.statsd.Incr("contact.submissions", []string{"result:failed"}, 1)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.send(ctx, domain.AutoReplyMail, s.autoReply(cs)); err != nil {
		_ = s.statsd.Incr("contact.submissions", []string{"result:failed"}, 1)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_ = s.statsd.Incr("contact.submissions", []string{"result:ok"}, 1)
	s.logger.Debug("contact emails sent", zap.String("subject", cs.Subject))

	return nil
}

func (s *Service) send(ctx context.Context, kind domain.MailKind, e domain.Email) error {
	ctx, span := s.tracer.Start(ctx, "contact.send", trace.WithAttributes(attribute.String("mail.kind", string(kind))))
	defer span.End()

	if s.cfg.MailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.MailTimeout)
		defer cancel()
	}

	tags := []string{"kind:" + string(kind)}
	start := time.Now()

	err := s.mailer.Send(ctx, e)

	_ = s.statsd.Histogram("contact.mail.latency", float64(time.Since(start).Milliseconds()), tags, 1)

	if err != nil {
		_ = s.statsd.Incr("contact.mail.failed", tags, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return &domain.MailDeliveryError{Kind: kind, Err: err}
	}

	_ = s.statsd.Incr("contact.mail.sent", tags, 1)
	return nil
}
