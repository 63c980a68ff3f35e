package scanner

import (
	"fmt"
	"net/http"

	"github.com/darkvigil/darkvigil/internal/model"
)

// analyzeCookies flags missing Secure and HttpOnly attributes, one finding
// per missing attribute per cookie.
func analyzeCookies(cookies []*http.Cookie) []model.Finding {
	findings := make([]model.Finding, 0)

	for _, cookie := range cookies {
		if !cookie.Secure {
			findings = append(findings, model.Finding(fmt.Sprintf("%s missing Secure flag", cookie.Name)))
		}
		if !cookie.HttpOnly {
			findings = append(findings, model.Finding(fmt.Sprintf("%s missing HttpOnly", cookie.Name)))
		}
	}

	return findings
}
