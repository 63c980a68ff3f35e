package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/engine"
	"github.com/darkvigil/darkvigil/internal/model"
)

// ProducerName keys exported crawl results to this subsystem.
const ProducerName = "darkvigil-search"

// ExportFunc hands a finished CrawlResult to the export collaborator and
// returns the written file path. The crawler never serializes anything
// itself.
type ExportFunc func(model.CrawlResult) (string, error)

// Crawler orchestrates one search term across all active engines.
//
// The HTTP client is injected pre-configured (Tor proxy, TLS settings);
// the crawler only adds per-request timeouts and headers.
type Crawler struct {
	// client is the Tor-routed HTTP client shared by all engine queries.
	client *http.Client

	// engines is the full registry; inactive entries are never contacted.
	engines []engine.Config

	// checker annotates results with reachability when requested.
	checker *LivenessChecker

	// limiter spaces out queries to successive engines.
	limiter *rate.Limiter

	// timeout bounds each engine query.
	timeout time.Duration

	// userAgent is sent with every query.
	userAgent string

	// export, when set, receives the complete CrawlResult after a crawl.
	export ExportFunc

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Crawler) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header for engine queries.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithLivenessChecker sets the checker used when a crawl requests
// reachability verification. Without one, checkAlive is a no-op.
func WithLivenessChecker(checker *LivenessChecker) Option {
	return func(c *Crawler) {
		c.checker = checker
	}
}

// WithExport registers an export collaborator invoked after each crawl.
func WithExport(export ExportFunc) Option {
	return func(c *Crawler) {
		c.export = export
	}
}

// WithEngineInterval sets the minimum spacing between engine queries.
// Zero disables rate limiting.
func WithEngineInterval(interval time.Duration) Option {
	return func(c *Crawler) {
		if interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval), 1)
		} else {
			c.limiter = nil
		}
	}
}

// New creates a Crawler over the given engine registry.
func New(client *http.Client, engines []engine.Config, opts ...Option) *Crawler {
	c := &Crawler{
		client:    client,
		engines:   engines,
		timeout:   config.DefaultSearchTimeout,
		userAgent: config.DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(config.DefaultEngineInterval), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Crawl searches all active engines for term and returns one result set
// per engine. When checkAlive is set, non-empty result sets are annotated
// with reachability before being stored.
//
// Crawl never fails as a whole: an engine that errors contributes an empty
// slice under its name and the crawl continues.
func (c *Crawler) Crawl(ctx context.Context, term string, checkAlive bool) model.CrawlResult {
	results := make(model.CrawlResult)

	for _, eng := range engine.ActiveEngines(c.engines) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				// Context gone; record the remaining engines as empty so
				// the one-key-per-active-engine invariant holds.
				results[eng.Name] = make([]*model.SearchResult, 0)
				continue
			}
		}

		records := c.queryEngine(ctx, eng, term)

		if checkAlive && len(records) > 0 && c.checker != nil {
			c.logger.Info("checking result liveness",
				"engine", eng.Name,
				"results", len(records),
			)
			records = c.checker.CheckAll(ctx, records)
		}

		results[eng.Name] = records
	}

	if c.export != nil {
		path, err := c.export(results)
		if err != nil {
			c.logger.Warn("export failed", "error", err)
		} else {
			c.logger.Info("results exported", "path", path)
		}
	}

	return results
}

// queryEngine fetches and extracts one engine's results. All failures
// degrade to an empty slice; nothing propagates.
func (c *Crawler) queryEngine(ctx context.Context, eng engine.Config, term string) []*model.SearchResult {
	empty := make([]*model.SearchResult, 0)

	queryURL := eng.QueryURL(term)
	c.logger.Info("querying engine", "engine", eng.Name, "url", queryURL)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, queryURL, nil)
	if err != nil {
		c.logger.Error("bad engine query URL", "engine", eng.Name, "error", err)
		return empty
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("engine request failed", "engine", eng.Name, "error", err)
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("engine returned non-success status",
			"engine", eng.Name,
			"status", resp.StatusCode,
		)
		return empty
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn("engine response unreadable", "engine", eng.Name, "error", err)
		return empty
	}

	records := eng.Extractor.Extract(doc)
	c.logger.Info("engine results extracted", "engine", eng.Name, "count", len(records))
	return records
}
