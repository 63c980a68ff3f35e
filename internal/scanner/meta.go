package scanner

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/model"
)

// metaLeakNames are the meta tag names that reveal tooling or authorship.
var metaLeakNames = map[string]struct{}{
	"generator":  {},
	"author":     {},
	"powered-by": {},
}

// analyzeMeta flags meta tags whose name reveals the site's tech stack or
// author, echoing name and content.
func analyzeMeta(doc *goquery.Document) []model.Finding {
	findings := make([]model.Finding, 0)

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		if _, ok := metaLeakNames[name]; !ok {
			return
		}
		content, _ := sel.Attr("content")
		findings = append(findings, model.Finding(fmt.Sprintf("%s: %s", name, content)))
	})

	return findings
}
