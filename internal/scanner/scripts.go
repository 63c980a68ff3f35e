package scanner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/model"
)

// suspiciousCalls are JavaScript constructs commonly used for injection
// or dynamic code execution.
var suspiciousCalls = []string{"eval(", "setTimeout(", "new Function"}

// base64Pattern matches an atob() invocation, a common obfuscation marker.
var base64Pattern = regexp.MustCompile(`atob\([^)]+\)`)

// analyzeScripts flags dangerous call patterns and Base64 obfuscation in
// inline script bodies. External scripts (src only) have no body and are
// not fetched.
func analyzeScripts(doc *goquery.Document) []model.Finding {
	findings := make([]model.Finding, 0)

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		code := sel.Text()

		for _, call := range suspiciousCalls {
			if strings.Contains(code, call) {
				findings = append(findings, "Suspicious JavaScript function used")
				break
			}
		}
		if base64Pattern.MatchString(code) {
			findings = append(findings, "Base64 obfuscation pattern detected")
		}
	})

	return findings
}
