package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNoRecipient = errors.New("notification: recipient has no email")

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type WelcomeMail struct {
	To          string
	Name        string
	CompanyName string
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	SendWelcome(ctx context.Context, mail WelcomeMail) error
}

type smtpMailer struct {
	from   string
	send   func(m *gomail.Message) error
	logger *zap.Logger
}

// NewMailer sends through SMTP. Without a host configured mails are only
// logged.
func NewMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}

	m := &smtpMailer{from: cfg.From, logger: l}
	if cfg.Host == "" {
		m.send = func(msg *gomail.Message) error {
			l.Info("smtp disabled, mail not sent",
				zap.Strings("to", msg.GetHeader("To")),
				zap.Strings("subject", msg.GetHeader("Subject")),
			)
			return nil
		}
		return m
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	m.send = func(msg *gomail.Message) error {
		return dialer.DialAndSend(msg)
	}
	return m
}

// NewMailerWithSender routes every message through s.
func NewMailerWithSender(from string, s gomail.Sender, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &smtpMailer{
		from:   from,
		send:   func(msg *gomail.Message) error { return gomail.Send(s, msg) },
		logger: logger,
	}
}

func (m *smtpMailer) SendWelcome(ctx context.Context, mail WelcomeMail) error {
	to := strings.TrimSpace(mail.To)
	if to == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", to, mail.Name)
	msg.SetHeader("Subject", fmt.Sprintf("Welcome to %s", mail.CompanyName))
	msg.SetBody("text/plain", welcomeBody(mail))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	m.logger.Info("welcome mail sent", zap.String("company", mail.CompanyName))
	return nil
}

func welcomeBody(mail WelcomeMail) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYou have been added to the %s time clock.\n"+
			"Sign in with the workspace name %q and your name to clock in and out.\n",
		mail.Name, mail.CompanyName, mail.CompanyName,
	)
}
