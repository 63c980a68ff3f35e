package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/darkvigil/darkvigil/internal/model"
)

// redirectMarker is Tor66's redirect-wrapper prefix; the real target is the
// value of the u parameter.
const redirectMarker = "url.php?u="

// Tor66Extractor parses Tor66 result pages.
//
// Tor66 has no structural result blocks. Hits are anchors whose href wraps
// the onion target in a redirect URL, and the description is loose text
// after the <br> that follows the anchor.
type Tor66Extractor struct{}

// Extract implements Extractor.
func (e *Tor66Extractor) Extract(doc *goquery.Document) []*model.SearchResult {
	results := make([]*model.SearchResult, 0)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, redirectMarker) || !strings.Contains(href, OnionMarker) {
			return
		}

		onionURL := unwrapRedirect(href)
		if onionURL == "" {
			return
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = model.NoTitle
		}

		description := descriptionAfterBreak(a.Get(0))
		if description == "" {
			description = model.NoDescription
		}

		results = append(results, model.NewSearchResult(title, onionURL, description))
	})

	return results
}

// OnionMarker gates Tor66 anchors to hidden-service targets.
const OnionMarker = ".onion"

// unwrapRedirect recovers the target URL from a redirect-wrapper href.
// Everything between "u=" and the next "&" is the target.
func unwrapRedirect(href string) string {
	_, rest, ok := strings.Cut(href, redirectMarker)
	if !ok {
		return ""
	}
	target, _, _ := strings.Cut(rest, "&")
	return target
}

// descriptionAfterBreak walks the document in order from the anchor to the
// next <br> element and returns the trimmed text node that follows it.
// Mirrors the loose text layout Tor66 uses instead of description markup.
func descriptionAfterBreak(anchor *html.Node) string {
	for n := nextInDocument(anchor); n != nil; n = nextInDocument(n) {
		if n.Type == html.ElementNode && n.Data == "br" {
			if sibling := n.NextSibling; sibling != nil && sibling.Type == html.TextNode {
				return strings.TrimSpace(sibling.Data)
			}
			return ""
		}
	}
	return ""
}

// nextInDocument returns the node after n in document order.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}
