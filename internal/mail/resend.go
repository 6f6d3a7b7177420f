package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

// ResendMailer delivers through the Resend API. Mail is always sent from
// account, which must be on a domain verified with Resend.
type ResendMailer struct {
	client  *resend.Client
	account string
}

func NewResendMailer(apiKey, account string) *ResendMailer {
	return NewResendMailerWithClient(resend.NewClient(apiKey), account)
}

func NewResendMailerWithClient(client *resend.Client, account string) *ResendMailer {
	return &ResendMailer{client: client, account: account}
}

func (m *ResendMailer) Send(ctx context.Context, e domain.Email) error {
	from, replyTo := sender(e, m.account)

	params := &resend.SendEmailRequest{
		From:    from.String(),
		To:      []string{e.To.String()},
		Subject: e.Subject,
		Html:    e.HTML,
	}
	if replyTo != nil {
		params.ReplyTo = replyTo.String()
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}

	return nil
}
