package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

const (
	TransportSMTP    = "smtp"
	TransportSMTP2Go = "smtp2go"
	TransportResend  = "resend"
	TransportLog     = "log"
)

// Config holds all configuration for the website backend
type Config struct {
	Environment string `env:"ENV"`
	Port        int    `env:"PORT" envDefault:"5000"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"../Frontend"`

	// Mail relay service account
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`
	DestEmail string `env:"DEST_EMAIL"`

	MailTransport     string        `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	MailTimeout       time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
	AutoReplyFromName string        `env:"AUTO_REPLY_FROM_NAME" envDefault:"Dr. Mehnaaz (Principal, BOMIS Pampore)"`
	SMTPHost          string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort          int           `env:"SMTP_PORT" envDefault:"587"`
	// Handed to the smtp2go client through the process environment.
	SMTP2GoAPIKey     string        `env:"SMTP2GO_API_KEY"`
	ResendAPIKey      string        `env:"RESEND_API_KEY"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Observability
	LogFile       string `env:"LOG_FILE"`
	StatsdURL     string `env:"STATSD_URL"`
	BugsnagAPIKey string `env:"BUGSNAG_API_KEY"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	relay := c.MailTransport != TransportLog

	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MailTransport, validation.Required, validation.In(TransportSMTP, TransportSMTP2Go, TransportResend, TransportLog)),
		validation.Field(&c.MailTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.EmailUser, validation.When(relay, validation.Required)),
		validation.Field(&c.DestEmail, validation.When(relay, validation.Required)),
		validation.Field(&c.EmailPass, validation.When(c.MailTransport == TransportSMTP, validation.Required)),
		validation.Field(&c.SMTPHost, validation.When(c.MailTransport == TransportSMTP, validation.Required)),
		validation.Field(&c.SMTP2GoAPIKey, validation.When(c.MailTransport == TransportSMTP2Go, validation.Required)),
		validation.Field(&c.ResendAPIKey, validation.When(c.MailTransport == TransportResend, validation.Required)),
	)
}

func (c *Config) Production() bool {
	return c.Environment != ""
}
