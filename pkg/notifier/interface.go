// Package notifier defines how confirmed catalog changes are delivered and
// how the delivered messages are worded.
package notifier

import (
	"context"
)

// Notifier delivers change notifications. Every error returned by an
// implementation matches serrors.ErrNotify.
//
//go:generate mockgen -package mocknotifier -source=interface.go -destination=mock/mocknotifier.go *
type Notifier interface {
	// NotifySummary delivers the full list of added and removed items. It is
	// called whenever a finalized diff is non-empty.
	NotifySummary(ctx context.Context, added, removed []string) error
	// NotifyAlert delivers a short high-priority alert. It is called only when
	// items were added, after the summary.
	NotifyAlert(ctx context.Context, addedCount int) error
}
