package engine

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/model"
)

// Extractor turns one engine's result page into structured records.
//
// Implementations must tolerate arbitrary markup: missing fields fall back
// to the model defaults, and nothing panics or errors. The returned slice
// preserves document order.
type Extractor interface {
	Extract(doc *goquery.Document) []*model.SearchResult
}

// Config describes one search engine: its identity, query-URL template,
// extractor, and enable flag. Configs are immutable after registry
// construction.
type Config struct {
	// Name identifies the engine in results, logs, and config overrides.
	Name string

	// SearchURL is the query-URL template with exactly one %s slot that
	// receives the percent-encoded search term.
	SearchURL string

	// Extractor parses this engine's result markup.
	Extractor Extractor

	// Active controls whether the crawler queries this engine at all.
	// Inactive engines are never contacted and their extractor never runs.
	Active bool
}

// QueryURL builds the engine's search URL for the given term.
func (c Config) QueryURL(term string) string {
	return fmt.Sprintf(c.SearchURL, url.QueryEscape(term))
}

// Default engine endpoints. Hidden-service search engines move mirrors
// from time to time; the config file can override these templates.
const (
	tordexSearchURL = "http://tordexu73joywapk2txdr54jed4imqledpcvcuf75qsas2gwdgksvnyd.onion/search?query=%s"
	tor66SearchURL  = "http://kn3hl4xwon63tc6hpjrwza2npb7d4w5yhbzq7jjewpfzyhsd65tm6dad.onion/search.php?search=%s&submit=Search&rt="
)

// DefaultRegistry returns the built-in engines, all active.
func DefaultRegistry() []Config {
	return []Config{
		{
			Name:      "Tordex",
			SearchURL: tordexSearchURL,
			Extractor: &TordexExtractor{},
			Active:    true,
		},
		{
			Name:      "Tor66",
			SearchURL: tor66SearchURL,
			Extractor: &Tor66Extractor{},
			Active:    true,
		},
	}
}

// ApplyOverrides returns a copy of the registry with config-file overrides
// applied. Overrides for unknown engine names are ignored; extractors stay
// compiled in, only the URL template and the active flag can change.
func ApplyOverrides(engines []Config, overrides map[string]config.EngineOverride) []Config {
	if len(overrides) == 0 {
		return engines
	}

	out := make([]Config, len(engines))
	copy(out, engines)

	for i := range out {
		override, ok := overrides[out[i].Name]
		if !ok {
			continue
		}
		if override.URL != "" {
			out[i].SearchURL = override.URL
		}
		if override.Active != nil {
			out[i].Active = *override.Active
		}
	}

	return out
}

// ActiveEngines filters the registry down to active entries.
func ActiveEngines(engines []Config) []Config {
	active := make([]Config, 0, len(engines))
	for _, e := range engines {
		if e.Active {
			active = append(active, e)
		}
	}
	return active
}
