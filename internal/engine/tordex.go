package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/model"
)

// TordexExtractor parses Tordex result pages.
//
// Tordex renders each hit as a <div class="result"> block with the title in
// an <h5>, the target URL as the text of an anchor inside an <h6>, and the
// description in a <p>.
type TordexExtractor struct{}

// Extract implements Extractor.
func (e *TordexExtractor) Extract(doc *goquery.Document) []*model.SearchResult {
	results := make([]*model.SearchResult, 0)

	doc.Find("div.result").Each(func(_ int, block *goquery.Selection) {
		title := strings.TrimSpace(block.Find("h5").First().Text())
		if title == "" {
			title = model.NoTitle
		}

		// The URL is presented as anchor text, not as an href.
		urlText := strings.TrimSpace(block.Find("h6 a").First().Text())

		description := strings.TrimSpace(block.Find("p").First().Text())
		if description == "" {
			description = model.NoDescription
		}

		results = append(results, model.NewSearchResult(title, urlText, description))
	})

	return results
}
