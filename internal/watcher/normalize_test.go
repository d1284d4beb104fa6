package watcher_test

import (
	"testing"
	"watcher/internal/watcher"
	"watcher/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{
			name: "lowercase scheme and host; add root path",
			in:   "HTTP://Example.COM",
			out:  "http://example.com/",
			ok:   true,
		},
		{
			name: "remove default http port",
			in:   "http://example.com:80/path",
			out:  "http://example.com/path",
			ok:   true,
		},
		{
			name: "remove default https port",
			in:   "https://example.com:443/",
			out:  "https://example.com/",
			ok:   true,
		},
		{
			name: "keep non-default port",
			in:   "http://example.com:8080/",
			out:  "http://example.com:8080/",
			ok:   true,
		},
		{
			name: "clean path and drop trailing slash",
			in:   "http://example.com//collections/./games/../card-games/page2/",
			out:  "http://example.com/collections/card-games/page2",
			ok:   true,
		},
		{
			name: "sort query keys and values",
			in:   "http://EXAMPLE.com/search?b=2&a=2&a=1",
			out:  "http://example.com/search?a=1&a=2&b=2",
			ok:   true,
		},
		{
			name: "remove fragment",
			in:   "https://example.com/products/catan.html#reviews",
			out:  "https://example.com/products/catan.html",
			ok:   true,
		},
		{
			name: "ipv6 host with non-default port",
			in:   "http://[2001:db8::1]:8080/a",
			out:  "http://[2001:db8::1]:8080/a",
			ok:   true,
		},
		{
			name: "ipv6 host with default port",
			in:   "http://[2001:db8::1]:80/a",
			out:  "http://[2001:db8::1]/a",
			ok:   true,
		},
		{
			name: "surrounding whitespace",
			in:   "  https://example.com/a.html\n",
			out:  "https://example.com/a.html",
			ok:   true,
		},
		{
			name: "already normalized",
			in:   "https://example.com/foo?bar=1&baz=2",
			out:  "https://example.com/foo?bar=1&baz=2",
			ok:   true,
		},
		{
			name: "invalid url",
			in:   "http://exa mple.com",
			ok:   false,
		},
		{
			name: "relative reference",
			in:   "/products/catan.html",
			ok:   false,
		},
		{
			name: "unsupported scheme",
			in:   "mailto:shop@example.com",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := watcher.NormalizeURL(tc.in)
			if !tc.ok {
				require.Error(t, err)
				require.ErrorIs(t, err, serrors.ErrBadRequest)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, got)

			again, err := watcher.NormalizeURL(got)
			require.NoError(t, err)
			require.Equal(t, got, again, "normalization must be idempotent")
		})
	}
}
