package mail

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smtp2go-oss/smtp2go-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

func TestSMTP2GoMailerSend(t *testing.T) {
	t.Parallel()

	tt := map[string]struct {
		from domain.Address
		want string
	}{
		"submitter is sent as the account": {domain.Address{Name: "Asha", Email: "asha@example.com"}, `"Asha" <school@example.com>`},
		"account sender is kept":           {domain.Address{Name: "BOMIS", Email: "school@example.com"}, `"BOMIS" <school@example.com>`},
	}

	for scenario, tc := range tt {
		tc := tc

		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			var got *smtp2go.Email
			m := &SMTP2GoMailer{account: "school@example.com", send: func(msg *smtp2go.Email) error {
				got = msg
				return nil
			}}

			err := m.Send(context.Background(), domain.Email{
				From:    tc.from,
				To:      domain.Address{Email: "principal@example.com"},
				Subject: "New Contact Form Message: Admissions",
				HTML:    "<p>hi</p>",
			})
			require.NoError(t, err)

			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.From)
			assert.Equal(t, []string{"principal@example.com"}, got.To)
			assert.Equal(t, "New Contact Form Message: Admissions", got.Subject)
			assert.Equal(t, "<p>hi</p>", got.HtmlBody)
		})
	}
}

func TestNewSMTP2GoMailerExportsAPIKey(t *testing.T) {
	t.Setenv("SMTP2GO_API_KEY", "stale")

	m, err := NewSMTP2GoMailer("api-from-config", "school@example.com")
	require.NoError(t, err)

	assert.Equal(t, "api-from-config", os.Getenv("SMTP2GO_API_KEY"))
	assert.Equal(t, "school@example.com", m.account)
}

func TestSender(t *testing.T) {
	t.Parallel()

	asha := domain.Address{Name: "Asha", Email: "asha@example.com"}
	other := domain.Address{Email: "other@example.com"}

	tt := map[string]struct {
		email       domain.Email
		account     string
		wantFrom    domain.Address
		wantReplyTo *domain.Address
	}{
		"foreign sender moves to reply-to": {
			domain.Email{From: asha},
			"school@example.com",
			domain.Address{Name: "Asha", Email: "school@example.com"},
			&asha,
		},
		"explicit reply-to is kept": {
			domain.Email{From: asha, ReplyTo: &other},
			"school@example.com",
			domain.Address{Name: "Asha", Email: "school@example.com"},
			&other,
		},
		"account sender is untouched": {
			domain.Email{From: domain.Address{Name: "BOMIS", Email: "School@Example.com"}},
			"school@example.com",
			domain.Address{Name: "BOMIS", Email: "School@Example.com"},
			nil,
		},
		"no account configured": {
			domain.Email{From: asha},
			"",
			asha,
			nil,
		},
	}

	for scenario, tc := range tt {
		tc := tc

		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			from, replyTo := sender(tc.email, tc.account)
			assert.Equal(t, tc.wantFrom, from)
			assert.Equal(t, tc.wantReplyTo, replyTo)
		})
	}
}

func TestSMTP2GoMailerErrors(t *testing.T) {
	t.Parallel()

	tt := map[string]struct {
		send    func(*smtp2go.Email) error
		timeout time.Duration
		want    error
	}{
		"api error": {
			func(*smtp2go.Email) error { return errors.New("sender not verified") },
			time.Second,
			nil,
		},
		"slow relay": {
			func(*smtp2go.Email) error { time.Sleep(time.Second); return nil },
			10 * time.Millisecond,
			context.DeadlineExceeded,
		},
	}

	for scenario, tc := range tt {
		tc := tc

		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), tc.timeout)
			defer cancel()

			m := &SMTP2GoMailer{send: tc.send}
			err := m.Send(ctx, domain.Email{To: domain.Address{Email: "principal@example.com"}})

			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
