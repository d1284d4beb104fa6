package watcher

import (
	"net"
	"net/url"
	"path"
	"sort"
	"strings"
	"watcher/pkg/serrors"
)

// NormalizeURL returns the canonical form of an absolute http(s) URL. Two links
// to the same page compare equal after normalization, which is what makes the
// frontier, the visited set and the registry deduplicate correctly:
//   - Lower-case the scheme and host
//   - Empty path becomes "/"
//   - Clean the path (resolve dot-segments, collapse duplicate slashes)
//   - Remove a trailing slash (except for the root path "/")
//   - Drop default ports (http:80, https:443), keep non-default ports
//   - Sort query parameters by key and by value
//   - Remove the fragment
//
// Relative references and non-http(s) schemes are rejected with
// serrors.ErrBadRequest.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "could not parse URL")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", serrors.With(serrors.ErrBadRequest, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", serrors.With(serrors.ErrBadRequest, "URL has no host")
	}

	if u.Path == "" {
		u.Path = "/"
	}
	cleaned := path.Clean(u.Path)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	u.Path = cleaned
	u.RawPath = ""

	host := strings.ToLower(u.Host)
	port := ""
	if ph, pp, err := net.SplitHostPort(host); err == nil {
		host, port = ph, pp
	}
	switch {
	case port == "":
		u.Host = host
	case (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443"):
		u.Host = bracketIPv6(host)
	default:
		u.Host = net.JoinHostPort(host, port)
	}

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			sort.Strings(q[k])
		}
		// Encode sorts keys.
		u.RawQuery = q.Encode()
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

func bracketIPv6(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}

	return host
}
