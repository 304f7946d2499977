package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New("no mail host provided")
	}

	if cfg.From == "" {
		return nil, errors.New("no sender address provided")
	}

	return &SMTP{cfg: cfg}, nil
}

func (s *SMTP) Send(subject, body, recipient string) error {
	if recipient == s.cfg.From {
		return errors.New("invalid recipient address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %v, %w", recipient, err)
	}

	return nil
}
