// Package mailer sends outbound mail. Sending is fire-and-forget from the
// perspective of the caller's state: a failed send never rolls anything
// back, it only surfaces as an error.
package mailer

type Mailer interface {
	Send(subject, body, recipient string) error
}
