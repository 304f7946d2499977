package mailer

import "go.uber.org/zap"

// Noop logs the mail instead of sending it. Used when mail.enabled is
// false so the service can run locally without an SMTP server.
type Noop struct{}

func (Noop) Send(subject, body, recipient string) error {
	zap.L().Info("Mail sending disabled, dropping message",
		zap.String("subject", subject),
		zap.String("recipient", recipient),
	)
	return nil
}
