package linkextract_test

import (
	"slices"
	"testing"
	"watcher/pkg/linkextract"

	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>Card games</title></head><body>
<a href="/card-games/page2">next</a>
<a href="https://shop.example/cool-game.html#reviews">game</a>
<a href="other-game.html">relative</a>
<a>no href</a>
<a href="   ">blank</a>
<a href="mailto:shop@example.com">mail</a>
<a href="javascript:void(0)">js</a>
<a href="https://elsewhere.example/x.html">external</a>
</body></html>`

func TestHTML_ExtractLinks(t *testing.T) {
	got := slices.Collect(linkextract.New().ExtractLinks(page, "https://shop.example/card-games/page1"))

	require.Equal(t, []string{
		"https://shop.example/card-games/page2",
		"https://shop.example/cool-game.html",
		"https://shop.example/card-games/other-game.html",
		"",
		"",
		"https://elsewhere.example/x.html",
	}, got)
}

func TestHTML_ExtractLinks_IsLazy(t *testing.T) {
	var got []string
	for link := range linkextract.New().ExtractLinks(page, "https://shop.example/") {
		got = append(got, link)
		if len(got) == 2 {
			break
		}
	}

	require.Equal(t, []string{
		"https://shop.example/card-games/page2",
		"https://shop.example/cool-game.html",
	}, got)
}

func TestHTML_ExtractLinks_UnparseableBase(t *testing.T) {
	got := slices.Collect(linkextract.New().ExtractLinks(
		`<a href="https://shop.example/a.html">a</a><a href="/b.html">b</a>`,
		"http://[::1"))

	// without a base, relative targets have no scheme and are dropped
	require.Equal(t, []string{"https://shop.example/a.html"}, got)
}

func TestHTML_ExtractLinks_Empty(t *testing.T) {
	require.Empty(t, slices.Collect(linkextract.New().ExtractLinks("", "https://shop.example/")))
	require.Empty(t, slices.Collect(linkextract.New().ExtractLinks("plain text", "https://shop.example/")))
}
