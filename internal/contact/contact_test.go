package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/contact"
	"github.com/bomis-pampore/website-backend/internal/domain"
	"github.com/bomis-pampore/website-backend/internal/testhelper"
)

var testConfig = contact.Config{
	DestEmail:         "principal@example.com",
	ServiceAccount:    "school@example.com",
	AutoReplyFromName: "Dr. Mehnaaz (Principal, BOMIS Pampore)",
	MailTimeout:       time.Second,
}

var asha = domain.ContactSubmission{
	Name:    "Asha",
	Email:   "asha@example.com",
	Subject: "Admissions",
	Message: "When do applications open?",
}

func newService(m domain.Mailer) *contact.Service {
	return contact.NewService(testConfig, m, zap.NewNop(), &statsd.NoOpClient{})
}

func TestSubmitSendsNotificationThenAutoReply(t *testing.T) {
	t.Parallel()

	m := testhelper.NewMailer()
	require.NoError(t, newService(m).Submit(context.Background(), asha))

	calls := m.Calls()
	require.Len(t, calls, 2)

	notification := calls[0]
	assert.Equal(t, "principal@example.com", notification.To.Email)
	assert.Equal(t, domain.Address{Name: "Asha", Email: "asha@example.com"}, notification.From)
	require.NotNil(t, notification.ReplyTo)
	assert.Equal(t, "asha@example.com", notification.ReplyTo.Email)
	assert.Equal(t, "New Contact Form Message: Admissions", notification.Subject)

	reply := calls[1]
	assert.Equal(t, "asha@example.com", reply.To.Email)
	assert.Equal(t, domain.Address{Name: "Dr. Mehnaaz (Principal, BOMIS Pampore)", Email: "school@example.com"}, reply.From)
	assert.Equal(t, "Thank you for contacting Birla Open Minds International School, Pampore", reply.Subject)
	assert.Contains(t, reply.HTML, "Dear Asha,")
	assert.NotContains(t, reply.HTML, "Admissions")
}

func TestSubmitRequiresAllFields(t *testing.T) {
	t.Parallel()

	tt := map[string]func(cs *domain.ContactSubmission){
		"name":    func(cs *domain.ContactSubmission) { cs.Name = "" },
		"email":   func(cs *domain.ContactSubmission) { cs.Email = "" },
		"subject": func(cs *domain.ContactSubmission) { cs.Subject = "" },
		"message": func(cs *domain.ContactSubmission) { cs.Message = "" },
	}

	for field, blank := range tt {
		blank := blank

		t.Run("missing "+field, func(t *testing.T) {
			t.Parallel()

			cs := asha
			blank(&cs)

			m := testhelper.NewMailer()
			err := newService(m).Submit(context.Background(), cs)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, m.Calls())
		})
	}
}

func TestSubmitMailFailures(t *testing.T) {
	t.Parallel()

	relayErr := errors.New("454 relay unavailable")

	tt := map[string]struct {
		errs  []error
		kind  domain.MailKind
		calls int
	}{
		"notification fails, auto-reply never attempted": {[]error{relayErr}, domain.NotificationMail, 1},
		"auto-reply fails after notification":             {[]error{nil, relayErr}, domain.AutoReplyMail, 2},
	}

	for scenario, tc := range tt {
		tc := tc

		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			m := testhelper.NewMailer(tc.errs...)
			err := newService(m).Submit(context.Background(), asha)

			assert.ErrorIs(t, err, domain.ErrMailDelivery)
			assert.ErrorIs(t, err, relayErr)

			var mde *domain.MailDeliveryError
			require.ErrorAs(t, err, &mde)
			assert.Equal(t, tc.kind, mde.Kind)
			assert.Len(t, m.Calls(), tc.calls)
		})
	}
}

func TestNotificationBodyIsNotEscaped(t *testing.T) {
	t.Parallel()

	cs := asha
	cs.Name = `Asha "A" <script>`
	cs.Message = "<b>hi</b>"

	m := testhelper.NewMailer()
	require.NoError(t, newService(m).Submit(context.Background(), cs))

	html := m.Calls()[0].HTML
	assert.Contains(t, html, "<p><b>Name:</b> Asha \"A\" <script></p>")
	assert.Contains(t, html, "<p><b>Email:</b> asha@example.com</p>")
	assert.Contains(t, html, "<p><b>Subject:</b> Admissions</p>")
	assert.Contains(t, html, "<p><b>hi</b></p>")
}

type blockingMailer struct{}

func (blockingMailer) Send(ctx context.Context, _ domain.Email) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSubmitTimesOutEachSend(t *testing.T) {
	t.Parallel()

	cfg := testConfig
	cfg.MailTimeout = 20 * time.Millisecond

	svc := contact.NewService(cfg, blockingMailer{}, zap.NewNop(), &statsd.NoOpClient{})
	err := svc.Submit(context.Background(), asha)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrMailDelivery)
}
