package testhelper

import (
	"context"
	"sync"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

// Mailer records every Send call. Errs[i], when set, is returned from the
// i-th call.
type Mailer struct {
	Errs []error

	mu    sync.Mutex
	calls []domain.Email
}

func NewMailer(errs ...error) *Mailer {
	return &Mailer{Errs: errs}
}

func (m *Mailer) Send(ctx context.Context, e domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.calls)
	m.calls = append(m.calls, e)

	if i < len(m.Errs) {
		return m.Errs[i]
	}
	return nil
}

func (m *Mailer) Calls() []domain.Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.Email(nil), m.calls...)
}
