package watcher_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"watcher/internal/watcher"
	"watcher/pkg/linkextract"
	"watcher/pkg/metrics"
	"watcher/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

const host = "https://shop.example"

// fakeSite serves HTML pages from memory. Each URL maps to a list of bodies:
// the n-th fetch returns the n-th body and the last one is repeated after
// that. Unknown URLs fail like a 404.
type fakeSite struct {
	mu      sync.Mutex
	pages   map[string][]string
	fetches map[string]int
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages:   map[string][]string{},
		fetches: map[string]int{},
	}
}

func (f *fakeSite) page(path string, bodies ...string) *fakeSite {
	f.pages[host+path] = bodies

	return f
}

func (f *fakeSite) Fetch(_ context.Context, URL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.fetches[URL]
	f.fetches[URL]++

	bodies, ok := f.pages[URL]
	if !ok || len(bodies) == 0 {
		return "", serrors.With(serrors.ErrFetch, "unexpected status: 404 Not Found")
	}
	if n >= len(bodies) {
		n = len(bodies) - 1
	}

	return bodies[n], nil
}

func (f *fakeSite) fetchCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetches[host+path]
}

// html renders a page linking to every href.
func html(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<li><a href="%s">link</a></li>`, h)
	}
	b.WriteString("</ul></body></html>")

	return b.String()
}

func item(name string) string {
	return host + "/products/" + name + ".html"
}

func itemPath(name string) string {
	return "/products/" + name + ".html"
}

func newRecorder(t *testing.T) *metrics.Recorder {
	t.Helper()

	r, err := metrics.NewRecorder(noop.NewMeterProvider())
	require.NoError(t, err)

	return r
}

func newTraverser(t *testing.T, site *fakeSite) *watcher.Traverser {
	t.Helper()

	return watcher.NewTraverser(site, linkextract.New(), watcher.DefaultRules(), newRecorder(t))
}
