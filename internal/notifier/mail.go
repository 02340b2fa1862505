package notifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/config"
	"github.com/pfrederiksen/conf-hunt/internal/digest"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/wneessen/go-mail"
)

var (
	// ErrNoRecipients is returned when a mail notifier has nobody to mail.
	ErrNoRecipients = errors.New("no recipients configured")
	// ErrNoMailHost is returned when no SMTP relay is configured.
	ErrNoMailHost = errors.New("mail.host is required")
	// ErrNoSender is returned when no sender address is configured.
	ErrNoSender = errors.New("mail.from is required")
)

// SendFunc delivers one message.
type SendFunc func(msg *mail.Msg) error

// MailNotifier mails the digest to each recipient separately
type MailNotifier struct {
	cfg        config.MailConfig
	recipients []string
	send       SendFunc
	now        func() time.Time
}

// NewMailNotifier creates a mail notifier for the given relay and recipients
func NewMailNotifier(cfg config.MailConfig, recipients []string) (*MailNotifier, error) {
	switch {
	case cfg.Host == "":
		return nil, ErrNoMailHost
	case cfg.From == "":
		return nil, ErrNoSender
	case len(recipients) == 0:
		return nil, ErrNoRecipients
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating SMTP client for %s: %w", cfg.Addr(), err)
	}

	return &MailNotifier{
		cfg:        cfg,
		recipients: recipients,
		send: func(msg *mail.Msg) error {
			return client.DialAndSend(msg)
		},
		now: time.Now,
	}, nil
}

// SetSendFunc replaces the function messages are sent with.
func (n *MailNotifier) SetSendFunc(send SendFunc) {
	n.send = send
}

// Notify mails the digest. A failed recipient is logged and skipped; an error is
// returned only when no recipient could be mailed.
func (n *MailNotifier) Notify(list *conference.List) error {
	now := n.now()
	subject := digest.Subject(now)
	body := digest.FormatDigest(list)

	failed := 0
	var lastErr error
	for _, to := range n.recipients {
		msg, err := buildMessage(n.cfg.From, to, subject, body, now)
		if err == nil {
			err = n.send(msg)
		}
		if err != nil {
			failed++
			lastErr = err
			logger.IncrCounter("mail.failures")
			logger.Warn("Sending digest failed", logger.Fields{
				"recipient": to,
				"error":     err.Error(),
			})
			continue
		}
		logger.IncrCounter("mail.sent")
		logger.Info("Sent digest", logger.Fields{"recipient": to})
	}

	if failed == len(n.recipients) {
		return fmt.Errorf("sending digest to %d recipient(s): %w", failed, lastErr)
	}
	return nil
}

func buildMessage(from, to, subject, body string, now time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(now)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}
