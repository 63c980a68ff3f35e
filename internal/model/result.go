package model

import "net/url"

// UnknownDomain is recorded when a result URL has no parsable host.
const UnknownDomain = "Unknown"

// Default texts used when an engine's markup lacks an expected field.
// Extractors must degrade to these rather than produce empty records.
const (
	NoTitle       = "No Title"
	NoDescription = "No Description"
)

// SearchResult is one entry harvested from a hidden-service search engine.
//
// A result is immutable after extraction with one exception: Alive is
// populated later by the liveness checker when reachability verification
// was requested. A nil Alive means the result was never probed.
type SearchResult struct {
	// Title is the result heading, or NoTitle when the engine's markup
	// lacks one.
	Title string `json:"title"`

	// URL is the target address as presented by the engine. May be empty
	// when the engine omits a usable link.
	URL string `json:"url"`

	// Description is the result summary, or NoDescription when absent.
	Description string `json:"description"`

	// Domain is derived from the URL's host component at construction.
	// It is never set independently; UnknownDomain when the URL does not
	// parse or has no host.
	Domain string `json:"domain"`

	// Alive reports whether the URL answered a probe with a status below
	// 500. Nil until liveness checking runs.
	Alive *bool `json:"alive,omitempty"`
}

// NewSearchResult builds a SearchResult, deriving Domain from the URL host.
func NewSearchResult(title, rawURL, description string) *SearchResult {
	return &SearchResult{
		Title:       title,
		URL:         rawURL,
		Description: description,
		Domain:      DeriveDomain(rawURL),
	}
}

// DeriveDomain extracts the host component from a raw URL.
// Returns UnknownDomain when the URL does not parse or has no host.
func DeriveDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return UnknownDomain
	}
	return u.Host
}

// SetAlive records the outcome of a liveness probe.
func (r *SearchResult) SetAlive(alive bool) {
	r.Alive = &alive
}

// IsAlive reports the probe outcome. The second return value is false when
// the result was never probed.
func (r *SearchResult) IsAlive() (bool, bool) {
	if r.Alive == nil {
		return false, false
	}
	return *r.Alive, true
}

// CrawlResult maps engine names to their ordered result sets.
//
// Invariant: a crawl produces exactly one entry per active engine. An engine
// that failed (transport error or non-2xx status) maps to an empty slice;
// failure never removes the key.
type CrawlResult map[string][]*SearchResult

// Total returns the number of results across all engines.
func (c CrawlResult) Total() int {
	var n int
	for _, results := range c {
		n += len(results)
	}
	return n
}
