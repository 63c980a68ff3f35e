package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/model"
)

// analyzeForms flags forms lacking an action attribute and forms whose
// serialized markup never mentions "csrf". The latter is an approximate
// signal, not a token parser.
func analyzeForms(doc *goquery.Document) []model.Finding {
	findings := make([]model.Finding, 0)

	doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		if action, _ := sel.Attr("action"); action == "" {
			findings = append(findings, "Form with no action attribute")
		}

		markup, err := goquery.OuterHtml(sel)
		if err != nil || !strings.Contains(strings.ToLower(markup), "csrf") {
			findings = append(findings, "Possible missing CSRF token")
		}
	})

	return findings
}
