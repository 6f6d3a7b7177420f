// Package mail holds the mail relay transports used to deliver contact form
// emails.
package mail

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/config"
	"github.com/bomis-pampore/website-backend/internal/domain"
)

// New returns the Mailer selected by cfg.MailTransport.
func New(cfg *config.Config, logger *zap.Logger) (domain.Mailer, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass), nil
	case config.TransportSMTP2Go:
		return NewSMTP2GoMailer(cfg.SMTP2GoAPIKey, cfg.EmailUser)
	case config.TransportResend:
		return NewResendMailer(cfg.ResendAPIKey, cfg.EmailUser), nil
	case config.TransportLog:
		return NewLogMailer(logger), nil
	}

	return nil, fmt.Errorf("unknown mail transport: %s", cfg.MailTransport)
}

// sender returns the From and Reply-To an API relay should use. Relays only
// accept verified senders, so a From outside account is sent as account under
// the original display name and the original address becomes the Reply-To.
func sender(e domain.Email, account string) (domain.Address, *domain.Address) {
	if account == "" || strings.EqualFold(e.From.Email, account) {
		return e.From, e.ReplyTo
	}

	replyTo := e.ReplyTo
	if replyTo == nil {
		replyTo = &domain.Address{Name: e.From.Name, Email: e.From.Email}
	}

	return domain.Address{Name: e.From.Name, Email: account}, replyTo
}
