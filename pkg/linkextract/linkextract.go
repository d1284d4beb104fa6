// Package linkextract yields hyperlink targets found in HTML pages.
package linkextract

import (
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extractor produces the hyperlink targets of a page lazily. An absent or
// unusable href is yielded as an empty string so callers can skip it.
type Extractor interface {
	ExtractLinks(pageText, baseURL string) iter.Seq[string]
}

// HTML extracts the href of every <a> element using goquery.
type HTML struct{}

// New returns an HTML extractor.
func New() HTML { return HTML{} }

// ExtractLinks parses pageText and yields each anchor's target resolved
// against baseURL, with the fragment removed. Targets with a scheme other than
// http or https are dropped. Parsing happens when the sequence is first
// iterated; a page that cannot be parsed yields nothing.
func (HTML) ExtractLinks(pageText, baseURL string) iter.Seq[string] {
	return func(yield func(string) bool) {
		root, err := html.Parse(strings.NewReader(pageText))
		if err != nil {
			return
		}

		base, err := url.Parse(baseURL)
		if err != nil {
			base = nil
		}

		goquery.NewDocumentFromNode(root).Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if !ok {
				return yield("")
			}

			target, keep := resolve(base, href)
			if !keep {
				return true
			}

			return yield(target)
		})
	}
}

// resolve turns href into an absolute URL. It reports false for targets that
// can never be pages (mailto:, javascript:, ...).
func resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", true
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", true
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}

	switch strings.ToLower(ref.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	ref.Fragment = ""

	return ref.String(), true
}

// Ensure HTML conforms to the Extractor interface at compile time.
var _ Extractor = HTML{}
