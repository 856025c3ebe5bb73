// Package mail delivers meeting reports over implicit-TLS SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/net/proxy"

	"github.com/example/scrumban/internal/env"
	"github.com/example/scrumban/internal/ports/secondary"
)

// Defaults match a Gmail account with an app password.
const (
	DefaultHost     = "smtp.gmail.com"
	DefaultPort     = 465
	DefaultFromName = "Scrumban Team"
	DefaultTimeout  = 30 * time.Second
)

// Config holds SMTP settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	Timeout   time.Duration
	ProxyAddr string
}

// ConfigFromEnv reads SCRUMBAN_SMTP_* variables. The proxy falls back to
// ALL_PROXY and SOCKS_PROXY.
func ConfigFromEnv() Config {
	proxyAddr := firstNonEmpty(
		env.GetString("SCRUMBAN_SMTP_PROXY", ""),
		env.GetString("ALL_PROXY", ""),
		env.GetString("all_proxy", ""),
		env.GetString("SOCKS_PROXY", ""),
		env.GetString("socks_proxy", ""),
	)
	return Config{
		Host:      env.GetString("SCRUMBAN_SMTP_HOST", DefaultHost),
		Port:      env.GetInt("SCRUMBAN_SMTP_PORT", DefaultPort),
		Username:  env.GetString("SCRUMBAN_SMTP_USER", ""),
		Password:  env.GetString("SCRUMBAN_SMTP_PASSWORD", ""),
		FromName:  env.GetString("SCRUMBAN_SMTP_FROM_NAME", DefaultFromName),
		Timeout:   env.GetDuration("SCRUMBAN_SMTP_TIMEOUT", DefaultTimeout),
		ProxyAddr: proxyAddr,
	}
}

// Notifier implements secondary.Notifier with SMTP.
type Notifier struct {
	cfg    Config
	dialer proxy.ContextDialer
	now    func() time.Time
}

// NewNotifier creates a notifier. It fails only on a malformed proxy address.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dialer, err := newDialer(cfg.ProxyAddr)
	if err != nil {
		return nil, err
	}
	return &Notifier{cfg: cfg, dialer: dialer, now: time.Now}, nil
}

// Send delivers one message. Missing credentials and network failures
// wrap secondary.ErrResourceUnavailable.
func (n *Notifier) Send(ctx context.Context, msg *secondary.Message) error {
	if n.cfg.Host == "" || n.cfg.Username == "" || n.cfg.Password == "" {
		return fmt.Errorf("%w: smtp credentials not configured (set SCRUMBAN_SMTP_USER and SCRUMBAN_SMTP_PASSWORD)", secondary.ErrResourceUnavailable)
	}

	m, err := n.newMsg(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
		gomail.WithTimeout(n.cfg.Timeout),
		gomail.WithDialContextFunc(tlsDialFunc(n.dialer, n.cfg.Host)),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialWithContext(ctx); err != nil {
		if errors.Is(err, errUnreachable) || ctx.Err() != nil {
			return fmt.Errorf("%w: %v", secondary.ErrResourceUnavailable, err)
		}
		return fmt.Errorf("failed to connect to %s: %w", n.cfg.Host, err)
	}
	defer client.Close()

	if err := client.Send(m); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", msg.To, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
