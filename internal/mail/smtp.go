package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/gofrs/uuid"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

const implicitTLSPort = 465

var ErrAuthUnsupported = errors.New("smtp server does not support AUTH")

// SMTPMailer submits messages to an authenticated SMTP relay such as Gmail.
// Every Send opens its own connection.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string

	tlsConfig *tls.Config
	dialer    *net.Dialer
	now       func() time.Time
}

type SMTPOption func(*SMTPMailer)

func WithTLSConfig(c *tls.Config) SMTPOption {
	return func(m *SMTPMailer) {
		m.tlsConfig = c
	}
}

func WithClock(now func() time.Time) SMTPOption {
	return func(m *SMTPMailer) {
		m.now = now
	}
}

func NewSMTPMailer(host string, port int, username, password string, opts ...SMTPOption) *SMTPMailer {
	m := &SMTPMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		tlsConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		dialer:    &net.Dialer{Timeout: 10 * time.Second},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *SMTPMailer) Send(ctx context.Context, e domain.Email) error {
	msg, err := m.compose(e)
	if err != nil {
		return fmt.Errorf("smtp: composing message: %w", err)
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dialing %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if m.port == implicitTLSPort {
		conn = tls.Client(conn, m.tlsConfig)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := m.deliver(c, e, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp: %w", ctxErr)
		}
		return fmt.Errorf("smtp: %w", err)
	}

	return nil
}

func (m *SMTPMailer) deliver(c *smtp.Client, e domain.Email, msg []byte) error {
	if m.port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(m.tlsConfig); err != nil {
				return err
			}
		}
	}

	if m.username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return ErrAuthUnsupported
		}
		if err := c.Auth(sasl.NewPlainClient("", m.username, m.password)); err != nil {
			return err
		}
	}

	if err := c.SendMail(m.envelopeSender(e), []string{e.To.Email}, bytes.NewReader(msg)); err != nil {
		return err
	}

	return c.Quit()
}

// The relay only accepts the authenticated account as envelope sender, the
// From header still carries whatever the caller asked for.
func (m *SMTPMailer) envelopeSender(e domain.Email) string {
	if m.username != "" {
		return m.username
	}
	return e.From.Email
}

func (m *SMTPMailer) compose(e domain.Email) ([]byte, error) {
	var h mail.Header
	h.SetDate(m.now())
	h.SetAddressList("From", []*mail.Address{{Name: e.From.Name, Address: e.From.Email}})
	h.SetAddressList("To", []*mail.Address{{Name: e.To.Name, Address: e.To.Email}})
	if e.ReplyTo != nil {
		h.SetAddressList("Reply-To", []*mail.Address{{Name: e.ReplyTo.Name, Address: e.ReplyTo.Email}})
	}
	h.SetSubject(e.Subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	h.SetMessageID(fmt.Sprintf("%s@%s", id, m.host))

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, e.HTML); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
