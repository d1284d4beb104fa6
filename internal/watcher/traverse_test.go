package watcher_test

import (
	"context"
	"testing"
	"watcher/internal/watcher"
	"watcher/pkg/linkextract"
	"watcher/pkg/serrors"

	mockfetcher "watcher/pkg/fetcher/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func catalogSite() *fakeSite {
	return newFakeSite().
		page("/collections/all/page1", html(
			"/collections/all/page2",
			"/collections/all/page1",
			"#top",
			"",
			"mailto:shop@example.com",
			itemPath("a"),
			itemPath("b"),
			"/collections/card-games/page1.html",
			"/about",
		)).
		page("/collections/all/page2", html(
			"page1",
			"/collections/all/page3",
			itemPath("c")+"#reviews",
			itemPath("a"),
		)).
		page("/collections/card-games/page1.html", html(
			itemPath("d"),
			"/collections/all/page2",
		)).
		page("/about", html(itemPath("hidden")))
}

func TestTraverse(t *testing.T) {
	site := catalogSite()
	tr := newTraverser(t, site)

	items, err := tr.Traverse(context.Background(), []string{host + "/collections/all/page1"})
	require.NoError(t, err)
	require.Equal(t, []string{item("a"), item("b"), item("c"), item("d")}, items.Sorted())

	// every reachable listing page is fetched exactly once, the failing one included
	require.Equal(t, 1, site.fetchCount("/collections/all/page1"))
	require.Equal(t, 1, site.fetchCount("/collections/all/page2"))
	require.Equal(t, 1, site.fetchCount("/collections/all/page3"))
	require.Equal(t, 1, site.fetchCount("/collections/card-games/page1.html"))
	// pages that are not listings are never expanded
	require.Equal(t, 0, site.fetchCount("/about"))
	require.Equal(t, 0, site.fetchCount(itemPath("a")))
}

func TestTraverse_OrderIndependent(t *testing.T) {
	seeds := []string{host + "/collections/all/page1", host + "/collections/all/page2"}
	reversed := []string{seeds[1], seeds[0]}

	first, err := newTraverser(t, catalogSite()).Traverse(context.Background(), seeds)
	require.NoError(t, err)
	second, err := newTraverser(t, catalogSite()).Traverse(context.Background(), reversed)
	require.NoError(t, err)

	require.True(t, first.Equal(second))
}

func TestTraverse_TerminatesOnCycles(t *testing.T) {
	site := newFakeSite().
		page("/c/page1", html("/c/page2", itemPath("a"))).
		page("/c/page2", html("/c/page3", "/c/page1")).
		page("/c/page3", html("/c/page1", "/c/page2", itemPath("b")))

	items, err := newTraverser(t, site).Traverse(context.Background(), []string{host + "/c/page1"})
	require.NoError(t, err)
	require.Equal(t, []string{item("a"), item("b")}, items.Sorted())
	for _, p := range []string{"/c/page1", "/c/page2", "/c/page3"} {
		require.Equal(t, 1, site.fetchCount(p), p)
	}
}

func TestTraverse_DuplicateAndEquivalentSeeds(t *testing.T) {
	site := newFakeSite().page("/c/page1", html(itemPath("a")))

	items, err := newTraverser(t, site).Traverse(context.Background(), []string{
		host + "/c/page1",
		"HTTPS://SHOP.EXAMPLE:443/c/page1#x",
		"",
		"not a url",
	})
	require.NoError(t, err)
	require.Equal(t, []string{item("a")}, items.Sorted())
	require.Equal(t, 1, site.fetchCount("/c/page1"))
}

func TestTraverse_AllFetchesFail(t *testing.T) {
	items, err := newTraverser(t, newFakeSite()).Traverse(context.Background(), []string{host + "/c/page1"})
	require.NoError(t, err)
	require.Zero(t, items.Len())
}

func TestTraverse_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := catalogSite()
	_, err := newTraverser(t, site).Traverse(ctx, []string{host + "/collections/all/page1"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, site.fetchCount("/collections/all/page1"))
}

func TestTraverse_FetchTimeoutIsRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mockfetcher.NewMockFetcher(ctrl)

	page1 := host + "/c/page1"
	page2 := host + "/c/page2"
	page3 := host + "/c/page3"

	f.EXPECT().Fetch(gomock.Any(), page1).Return(html("/c/page2", "/c/page3", itemPath("a")), nil).Times(1)
	f.EXPECT().Fetch(gomock.Any(), page2).Return("", serrors.Wrap(serrors.ErrFetch,
		serrors.Wrap(serrors.ErrTimeout, context.DeadlineExceeded, "fetch timed out"), "could not fetch")).Times(1)
	f.EXPECT().Fetch(gomock.Any(), page3).Return(html("/c/page2", itemPath("b")), nil).Times(1)

	tr := watcher.NewTraverser(f, linkextract.New(), watcher.DefaultRules(), newRecorder(t))
	items, err := tr.Traverse(context.Background(), []string{page1})
	require.NoError(t, err)
	require.Equal(t, []string{item("a"), item("b")}, items.Sorted())
}
