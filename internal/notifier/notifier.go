// Package notifier is the best-effort outbound event sink. Every call is
// fire-and-forget: failures are logged, never returned, so a missed email or
// admin event can never block a lifecycle transition.
package notifier

import (
	"fmt"
	"net/smtp"

	"github.com/prehireio/prehire/config"
	"github.com/rs/zerolog/log"
)

type Notifier interface {
	// NotifyAdmins records an admin-facing event triggered by a lifecycle
	// transition (e.g. an applicant started a test).
	NotifyAdmins(eventType, message string, payload map[string]interface{})
	// SendInviteEmail delivers the invitation with the take-test link.
	SendInviteEmail(toEmail, applicantName, testTitle, inviteToken string)
}

type emailNotifier struct {
	cfg *config.Config
}

func NewNotifier(cfg *config.Config) Notifier {
	return &emailNotifier{cfg: cfg}
}

func (n *emailNotifier) NotifyAdmins(eventType, message string, payload map[string]interface{}) {
	log.Info().
		Str("event", eventType).
		Interface("payload", payload).
		Msg(message)
}

func (n *emailNotifier) SendInviteEmail(toEmail, applicantName, testTitle, inviteToken string) {
	if !n.cfg.SMTP.Enabled {
		log.Info().Str("to", toEmail).Str("test", testTitle).Msg("SMTP disabled, skipping invite email")
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYou have been invited to take the test %q.\r\n"+
			"Use this link to schedule and take your test:\r\n\r\n"+
			"  /take-test/%s\r\n\r\nGood luck!\r\n",
		applicantName, testTitle, inviteToken,
	)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Test Invitation: %s\r\n\r\n%s",
		n.cfg.SMTP.From, toEmail, testTitle, body)

	addr := n.cfg.SMTP.Host + ":" + n.cfg.SMTP.Port
	var auth smtp.Auth
	if n.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTP.Username, n.cfg.SMTP.Password, n.cfg.SMTP.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.SMTP.From, []string{toEmail}, []byte(msg)); err != nil {
		// Best effort only; the invite itself is already persisted.
		log.Error().Err(err).Str("to", toEmail).Msg("Failed to send invite email")
		return
	}
	log.Info().Str("to", toEmail).Str("test", testTitle).Msg("Invite email sent")
}
