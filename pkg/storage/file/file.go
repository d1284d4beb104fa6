// Package file implements storage.Registry on top of a plain text file: UTF-8,
// one URL per line in ascending order, every line newline-terminated, no
// header.
package file

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"watcher/pkg/domain"
	"watcher/pkg/serrors"
	"watcher/pkg/storage"
)

// Registry stores the item set in the file at Path.
type Registry struct {
	path string
}

// New returns a Registry backed by the file at path. The file is created on
// the first Load if it does not exist.
func New(path string) *Registry {
	return &Registry{path: path}
}

// Path returns the location of the registry file.
func (r *Registry) Path() string { return r.path }

// Load reads the registry file. A missing file is created empty and yields an
// empty set. Blank lines and trailing whitespace are ignored.
func (r *Registry) Load(_ context.Context) (domain.ItemSet, error) {
	b, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		if err := r.create(); err != nil {
			return nil, err
		}

		return domain.NewItemSet(), nil
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrPersistence, err, "could not read registry %s", r.path)
	}

	items := domain.NewItemSet()
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		items.Add(strings.TrimRightFunc(sc.Text(), isSpace))
	}
	if err := sc.Err(); err != nil {
		return nil, serrors.Wrap(serrors.ErrPersistence, err, "could not parse registry %s", r.path)
	}

	return items, nil
}

// Save replaces the registry file with the given items. The new content is
// written to a temporary file in the same directory and renamed over the old
// one, so a failed write leaves the previous registry intact.
func (r *Registry) Save(_ context.Context, items domain.ItemSet) error {
	var buf bytes.Buffer
	for _, u := range items.Sorted() {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not create temp registry in %s", dir)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()

		return serrors.Wrap(serrors.ErrPersistence, err, "could not write registry")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()

		return serrors.Wrap(serrors.ErrPersistence, err, "could not sync registry")
	}
	if err := tmp.Close(); err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not close registry")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint: gosec
		return serrors.Wrap(serrors.ErrPersistence, err, "could not chmod registry")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not replace registry %s", r.path)
	}

	return nil
}

// Close is a no-op; the file is not held open between calls.
func (r *Registry) Close() error { return nil }

func (r *Registry) create() error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint: gosec
			return serrors.Wrap(serrors.ErrPersistence, err, "could not create registry dir %s", dir)
		}
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY, 0o644) //nolint: gosec
	if err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not create registry %s", r.path)
	}
	if err := f.Close(); err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not create registry %s", r.path)
	}

	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// Ensure Registry conforms to the storage.Storage interface at compile time.
var _ storage.Storage = (*Registry)(nil)
