package watcher

import (
	"context"
)

// Watcher runs invocations: a confirmed traversal of the catalog followed by
// notification and persistence of the changes.
//
//go:generate mockgen -package mockwatcher -source=interface.go -destination=mock/mockwatcher.go *
type Watcher interface {
	Invoke(ctx context.Context) (Report, error)
}
