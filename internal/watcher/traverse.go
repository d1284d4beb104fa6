package watcher

import (
	"context"
	"fmt"
	"watcher/pkg/domain"
	"watcher/pkg/fetcher"
	"watcher/pkg/linkextract"
	"watcher/pkg/logger"
	"watcher/pkg/metrics"

	"go.uber.org/zap"
)

// Traverser discovers the item pages reachable from a set of seeds by
// breadth-first exploration of listing pages.
//
// Termination relies on the graph reachable through listing pages being
// finite. Every URL is enqueued at most once per traversal, so a finite graph
// always drains the frontier; a site that generates unbounded distinct listing
// URLs would not terminate.
type Traverser struct {
	fetcher   fetcher.Fetcher
	extractor linkextract.Extractor
	rules     Rules
	recorder  *metrics.Recorder
}

// NewTraverser returns a Traverser that fetches with f, extracts links with e
// and classifies them with rules.
func NewTraverser(f fetcher.Fetcher, e linkextract.Extractor, rules Rules, recorder *metrics.Recorder) *Traverser {
	return &Traverser{
		fetcher:   f,
		extractor: e,
		rules:     rules,
		recorder:  recorder,
	}
}

// crawlRun is the mutable state of a single traversal attempt. A fresh value
// is built for every attempt and discarded afterwards.
type crawlRun struct {
	// frontier holds URLs waiting to be visited in FIFO order.
	frontier []string
	// queued contains every URL currently in frontier.
	queued map[string]struct{}
	// visited contains every URL popped from the frontier, fetched or not.
	visited map[string]struct{}
	// items is the discovered item set.
	items domain.ItemSet
}

func newCrawlRun(seeds []string) *crawlRun {
	run := &crawlRun{
		queued:  make(map[string]struct{}, len(seeds)),
		visited: make(map[string]struct{}),
		items:   domain.NewItemSet(),
	}
	for _, s := range seeds {
		run.enqueue(s)
	}

	return run
}

func (r *crawlRun) enqueue(URL string) {
	if URL == "" {
		return
	}
	if _, ok := r.queued[URL]; ok {
		return
	}
	if _, ok := r.visited[URL]; ok {
		return
	}
	r.queued[URL] = struct{}{}
	r.frontier = append(r.frontier, URL)
}

func (r *crawlRun) pop() (string, bool) {
	if len(r.frontier) == 0 {
		return "", false
	}
	URL := r.frontier[0]
	r.frontier[0] = ""
	r.frontier = r.frontier[1:]
	delete(r.queued, URL)
	r.visited[URL] = struct{}{}

	return URL, true
}

// Traverse explores the site starting from seeds and returns the set of item
// URLs discovered. A page that cannot be fetched is logged and treated as
// visited; it never aborts the traversal. The only error returned is the
// context error when ctx is done, in which case the partial result must not be
// trusted.
func (t *Traverser) Traverse(ctx context.Context, seeds []string) (domain.ItemSet, error) {
	run := newCrawlRun(t.normalizeAll(ctx, seeds))

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("traversal interrupted: %w", err)
		}

		page, ok := run.pop()
		if !ok {
			break
		}

		body, err := t.fetcher.Fetch(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("traversal interrupted: %w", ctx.Err())
			}
			t.recorder.FetchFailure(ctx)
			logger.Warn(ctx, "could not fetch page",
				zap.String("URL", page),
				zap.String("stage", "fetch"),
				zap.Error(err))

			continue
		}

		t.expand(ctx, run, page, body)
	}

	return run.items, nil
}

// expand classifies every link of page. Enqueueing and recording are
// independent decisions: a URL can be both a listing page and an item.
func (t *Traverser) expand(ctx context.Context, run *crawlRun, page, body string) {
	for raw := range t.extractor.ExtractLinks(body, page) {
		if raw == "" {
			continue
		}

		target, err := NormalizeURL(raw)
		if err != nil {
			logger.Debug(ctx, "skipping link", zap.String("URL", page), zap.String("link", raw), zap.Error(err))

			continue
		}

		if target != page && t.rules.IsListing(target) {
			run.enqueue(target)
		}
		if t.rules.ShouldRecord(target) {
			run.items.Add(target)
		}
	}
}

func (t *Traverser) normalizeAll(ctx context.Context, seeds []string) []string {
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if s == "" {
			continue
		}
		n, err := NormalizeURL(s)
		if err != nil {
			logger.Warn(ctx, "skipping invalid seed", zap.String("URL", s), zap.Error(err))

			continue
		}
		out = append(out, n)
	}

	return out
}
