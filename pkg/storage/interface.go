// Package storage defines the persistence interfaces the watcher relies on.
// The registry is the durable record of the last confirmed item set; different
// backends (a plain text file, PostgreSQL) provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"watcher/pkg/domain"
)

// Registry loads and replaces the confirmed item set. Every error returned by
// an implementation matches serrors.ErrPersistence.
type Registry interface {
	// Load returns the confirmed item set. When no durable record exists yet,
	// an empty one is created and an empty set is returned.
	Load(ctx context.Context) (domain.ItemSet, error)
	// Save replaces the durable record with exactly the given items.
	Save(ctx context.Context, items domain.ItemSet) error
}

// Storage is a Registry that holds resources which must be released.
type Storage interface {
	Registry

	// Close releases any resources held by the storage implementation. After
	// Close, the instance should not be used.
	Close() error
}
