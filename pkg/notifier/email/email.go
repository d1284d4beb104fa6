// Package email delivers notifications over SMTP using go-mail.
package email

import (
	"context"
	"time"
	"watcher/pkg/notifier"
	"watcher/pkg/serrors"

	"github.com/wneessen/go-mail"
)

// Sender sends a batch of messages in a single SMTP session. *mail.Client
// satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Options configures the SMTP connection and the recipients.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL enables implicit TLS. When false the client still upgrades with
	// STARTTLS when the server offers it.
	SSL     bool
	Timeout time.Duration

	From      string
	SummaryTo []string
	AlertTo   []string
	Site      string
}

// Notifier sends the summary and the alert as plain-text mails.
type Notifier struct {
	sender  Sender
	options Options
}

// NewClient builds a go-mail client from options without dialing.
func NewClient(options Options) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(options.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if options.SSL {
		opts = append(opts, mail.WithSSL())
	}
	if options.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(options.Username),
			mail.WithPassword(options.Password))
	}
	if options.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(options.Timeout))
	}

	client, err := mail.NewClient(options.Host, opts...)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid SMTP configuration")
	}

	return client, nil
}

// New returns a Notifier sending through sender.
func New(sender Sender, options Options) *Notifier {
	return &Notifier{sender: sender, options: options}
}

// NotifySummary mails the summary to the summary recipients.
func (n *Notifier) NotifySummary(ctx context.Context, added, removed []string) error {
	return n.send(ctx, n.options.SummaryTo, notifier.Summary(n.options.Site, added, removed))
}

// NotifyAlert mails the short alert to the alert recipients.
func (n *Notifier) NotifyAlert(ctx context.Context, addedCount int) error {
	return n.send(ctx, n.options.AlertTo, notifier.Alert(n.options.Site, addedCount))
}

func (n *Notifier) send(ctx context.Context, to []string, m notifier.Message) error {
	if len(to) == 0 {
		return nil
	}

	msg, err := BuildMsg(n.options.From, to, m)
	if err != nil {
		return err
	}

	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return serrors.Wrap(serrors.ErrNotify, err, "could not send %q", m.Subject)
	}

	return nil
}

// BuildMsg turns a rendered notification into a plain-text mail.
func BuildMsg(from string, to []string, m notifier.Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, serrors.Wrap(serrors.ErrNotify, err, "invalid sender %q", from)
	}
	if err := msg.To(to...); err != nil {
		return nil, serrors.Wrap(serrors.ErrNotify, err, "invalid recipients %v", to)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	return msg, nil
}

// Ensure Notifier conforms to the notifier.Notifier interface at compile time.
var _ notifier.Notifier = (*Notifier)(nil)
