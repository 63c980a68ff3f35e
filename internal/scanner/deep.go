package scanner

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/crypto/sha3"

	"github.com/darkvigil/darkvigil/internal/model"
)

// maxRedirectHops caps the manual Location walk of the redirect probe.
const maxRedirectHops = 10

// redirectTrapThreshold is the distinct-target count above which a chain
// counts as a possible trap.
const redirectTrapThreshold = 5

// hiddenPaths are the sensitive locations probed in detail mode.
var hiddenPaths = []string{"/.git", "/.env", "/admin", "/config", "/backup.zip"}

// checkRedirectBehavior follows Location headers by hand, without
// auto-redirect, tracking distinct targets. Long chains of distinct
// targets suggest a tarpit. A transport failure fails the probe without
// contributing findings.
func (s *Scanner) checkRedirectBehavior(ctx context.Context, report *model.ScanReport) {
	if s.noRedirect == nil {
		report.MarkPass(model.CategoryRedirect, model.PassFailed)
		return
	}

	seen := make(map[string]struct{})
	current := s.target

	for range maxRedirectHops {
		location, err := s.nextLocation(ctx, current)
		if err != nil {
			s.logger.Debug("redirect probe failed", "url", current, "error", err)
			report.MarkPass(model.CategoryRedirect, model.PassFailed)
			return
		}
		if location == "" {
			break
		}
		if _, repeated := seen[location]; repeated {
			break
		}
		seen[location] = struct{}{}
		current = resolveURL(current, location)
	}

	findings := make([]model.Finding, 0)
	if len(seen) > redirectTrapThreshold {
		findings = append(findings, "Multiple chained redirects (possible trap)")
	}
	report.AddFindings(model.CategoryRedirect, findings)
}

// nextLocation fetches current without following redirects and returns its
// Location header, empty when the response does not redirect.
func (s *Scanner) nextLocation(ctx context.Context, current string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, current, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.noRedirect.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	return resp.Header.Get("Location"), nil
}

// probeHiddenPaths issues one GET per sensitive path. A 200 means the path
// is exposed. Individual request failures skip that path only; the probe
// itself always completes.
func (s *Scanner) probeHiddenPaths(ctx context.Context, report *model.ScanReport) {
	s.logger.Info("scanning common hidden paths", "url", s.target)

	findings := make([]model.Finding, 0)
	for _, path := range hiddenPaths {
		full := resolveURL(s.target, path)

		resp, _, err := s.fetch(ctx, full, s.client, s.pathTimeout)
		if err != nil {
			s.logger.Debug("hidden path probe failed", "path", path, "error", err)
			continue
		}
		if resp.StatusCode == http.StatusOK {
			findings = append(findings, model.Finding(path))
		}
	}

	report.AddFindings(model.CategoryHiddenPaths, findings)
}

// detectHoneypot applies two heuristics: identical responses to unrelated
// queries, and invisible elements in the already-fetched document. Any
// transport failure fails the whole probe; both checks are best-effort.
func (s *Scanner) detectHoneypot(ctx context.Context, doc *goquery.Document, report *model.ScanReport) {
	_, first, err := s.fetch(ctx, s.target+"?q=test1", s.client, s.timeout)
	if err != nil {
		s.logger.Debug("honeypot probe failed", "error", err)
		report.MarkPass(model.CategoryHoneypot, model.PassFailed)
		return
	}
	_, second, err := s.fetch(ctx, s.target+"?q=test2", s.client, s.timeout)
	if err != nil {
		s.logger.Debug("honeypot probe failed", "error", err)
		report.MarkPass(model.CategoryHoneypot, model.PassFailed)
		return
	}

	findings := make([]model.Finding, 0)
	if sha3.Sum256(bytes.TrimSpace(first)) == sha3.Sum256(bytes.TrimSpace(second)) {
		findings = append(findings, "Identical response for unrelated queries")
	}

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if strings.Contains(style, "display:none") {
			findings = append(findings, "Invisible HTML element detected")
		}
	})

	report.AddFindings(model.CategoryHoneypot, findings)
}

// resolveURL joins ref against base the way a browser would. A ref that
// cannot be parsed is returned as-is.
func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
