package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/model"
)

// LivenessChecker probes discovered hidden services concurrently and marks
// each result alive or dead. A service counts as alive when it answers
// with any status below 500; client errors still prove a live daemon.
type LivenessChecker struct {
	// client is the Tor-routed HTTP client used for probes.
	client *http.Client

	// workers bounds concurrent probes.
	workers int

	// timeout bounds each probe.
	timeout time.Duration

	// userAgent is sent with every probe.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// LivenessOption configures a LivenessChecker.
type LivenessOption func(*LivenessChecker)

// WithLivenessWorkers sets the bound on concurrent probes.
func WithLivenessWorkers(workers int) LivenessOption {
	return func(l *LivenessChecker) {
		if workers > 0 {
			l.workers = workers
		}
	}
}

// WithLivenessTimeout sets the per-probe timeout.
func WithLivenessTimeout(timeout time.Duration) LivenessOption {
	return func(l *LivenessChecker) {
		l.timeout = timeout
	}
}

// WithLivenessLogger sets a custom logger.
func WithLivenessLogger(logger *slog.Logger) LivenessOption {
	return func(l *LivenessChecker) {
		l.logger = logger
	}
}

// WithLivenessUserAgent sets the User-Agent header for probes.
func WithLivenessUserAgent(ua string) LivenessOption {
	return func(l *LivenessChecker) {
		l.userAgent = ua
	}
}

// NewLivenessChecker creates a checker over the given Tor-routed client.
func NewLivenessChecker(client *http.Client, opts ...LivenessOption) *LivenessChecker {
	l := &LivenessChecker{
		client:    client,
		workers:   config.DefaultWorkers,
		timeout:   config.DefaultProbeTimeout,
		userAgent: config.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// CheckAll probes every record and returns the same slice with each
// record's liveness set. Each goroutine writes only to its own record,
// so no locking is needed.
func (l *LivenessChecker) CheckAll(ctx context.Context, records []*model.SearchResult) []*model.SearchResult {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for _, record := range records {
		g.Go(func() error {
			record.SetAlive(l.probe(ctx, record.URL))
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	return records
}

// probe performs a single reachability check.
func (l *LivenessChecker) probe(ctx context.Context, rawURL string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("liveness probe failed", "url", rawURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}
