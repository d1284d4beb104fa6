// Package lognotify provides a notifier.Notifier that only writes
// notifications to the structured log. It is the default when no delivery
// channel is configured.
package lognotify

import (
	"context"
	"watcher/pkg/logger"
	"watcher/pkg/notifier"

	"go.uber.org/zap"
)

// Notifier logs notifications.
type Notifier struct {
	site string
}

// New returns a Notifier naming site in its messages.
func New(site string) *Notifier {
	return &Notifier{site: site}
}

// NotifySummary logs the summary message.
func (n *Notifier) NotifySummary(ctx context.Context, added, removed []string) error {
	m := notifier.Summary(n.site, added, removed)
	logger.Info(ctx, "summary notification",
		zap.String("subject", m.Subject),
		zap.Strings("added", added),
		zap.Strings("removed", removed))

	return nil
}

// NotifyAlert logs the alert message.
func (n *Notifier) NotifyAlert(ctx context.Context, addedCount int) error {
	m := notifier.Alert(n.site, addedCount)
	logger.Warn(ctx, "alert notification", zap.String("subject", m.Subject), zap.String("body", m.Body))

	return nil
}

// Ensure Notifier conforms to the notifier.Notifier interface at compile time.
var _ notifier.Notifier = (*Notifier)(nil)
