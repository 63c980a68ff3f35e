package scanner

import (
	"fmt"
	"net/http"

	"github.com/darkvigil/darkvigil/internal/model"
)

// analyzeHeaders flags tech-stack leaks and missing hardening headers.
func analyzeHeaders(headers http.Header) []model.Finding {
	findings := make([]model.Finding, 0)

	if v := headers.Get("Server"); v != "" {
		findings = append(findings, model.Finding(fmt.Sprintf("Server info leaked: %s", v)))
	}
	if v := headers.Get("X-Powered-By"); v != "" {
		findings = append(findings, model.Finding(fmt.Sprintf("Tech stack leaked: %s", v)))
	}
	if headers.Get("Strict-Transport-Security") == "" {
		findings = append(findings, "Missing HSTS header")
	}
	if headers.Get("Content-Security-Policy") == "" {
		findings = append(findings, "Missing CSP header")
	}
	if headers.Get("X-Frame-Options") == "" {
		findings = append(findings, "Missing X-Frame-Options header")
	}

	return findings
}
