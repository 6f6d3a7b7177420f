package mail

import (
	"context"
	"fmt"
	"os"

	"github.com/smtp2go-oss/smtp2go-go"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

const smtp2goAPIKeyEnv = "SMTP2GO_API_KEY"

// SMTP2GoMailer delivers through the SMTP2GO HTTP API. Mail is always sent
// from account, which must be a verified SMTP2GO sender. The API client has no
// Reply-To field, so a rewritten sender loses its reply address.
type SMTP2GoMailer struct {
	account string
	send    func(*smtp2go.Email) error
}

// NewSMTP2GoMailer exports apiKey as SMTP2GO_API_KEY, the only place the
// client library reads its key from.
func NewSMTP2GoMailer(apiKey, account string) (*SMTP2GoMailer, error) {
	if err := os.Setenv(smtp2goAPIKeyEnv, apiKey); err != nil {
		return nil, fmt.Errorf("smtp2go: setting api key: %w", err)
	}

	return &SMTP2GoMailer{
		account: account,
		send: func(msg *smtp2go.Email) error {
			_, err := smtp2go.Send(msg)
			return err
		},
	}, nil
}

func (m *SMTP2GoMailer) Send(ctx context.Context, e domain.Email) error {
	from, _ := sender(e, m.account)

	msg := &smtp2go.Email{
		From:     from.String(),
		To:       []string{e.To.String()},
		Subject:  e.Subject,
		HtmlBody: e.HTML,
	}

	// smtp2go.Send takes no context, so a timed out call is abandoned rather
	// than cancelled.
	errc := make(chan error, 1)
	go func() { errc <- m.send(msg) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("smtp2go: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp2go: %w", ctx.Err())
	}
}
