package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/model"
)

// maxBodyBytes caps how much of a response body a pass will read.
// Hidden services occasionally stream endless bodies to stall scanners.
const maxBodyBytes = 4 << 20

// DialFunc opens a raw connection, typically through the Tor proxy.
// The TLS certificate pass handshakes over it outside any HTTP client.
type DialFunc func(network, address string) (net.Conn, error)

// Scanner audits one target URL.
//
// The HTTP clients are injected pre-configured; the scanner only adds
// per-request timeouts and headers. The no-redirect client is required for
// the redirect-behavior probe, which walks Location headers by hand.
type Scanner struct {
	// target is the normalized (scheme-prefixed) URL.
	target string

	// client follows redirects and keeps cookies.
	client *http.Client

	// noRedirect never follows redirects.
	noRedirect *http.Client

	// dial opens raw connections for the TLS pass.
	dial DialFunc

	// detail enables the deep probes.
	detail bool

	// timeout bounds the initial fetch and the honeypot probes.
	timeout time.Duration

	// pathTimeout bounds each hidden-path probe.
	pathTimeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDetail enables the deep probes (redirect behavior, hidden paths,
// honeypot heuristics).
func WithDetail(detail bool) Option {
	return func(s *Scanner) {
		s.detail = detail
	}
}

// WithNoRedirectClient sets the client used by the redirect-behavior probe.
// Without one, that probe is recorded as failed in detail mode.
func WithNoRedirectClient(client *http.Client) Option {
	return func(s *Scanner) {
		s.noRedirect = client
	}
}

// WithDialer sets the raw dialer for the TLS certificate pass. Defaults to
// a direct net.Dial; pass the Tor client's dialer to reach onion hosts.
func WithDialer(dial DialFunc) Option {
	return func(s *Scanner) {
		s.dial = dial
	}
}

// WithTimeout sets the timeout for the initial fetch and honeypot probes.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scanner) {
		s.timeout = timeout
	}
}

// WithPathProbeTimeout sets the per-request timeout for hidden-path probes.
func WithPathProbeTimeout(timeout time.Duration) Option {
	return func(s *Scanner) {
		s.pathTimeout = timeout
	}
}

// WithUserAgent sets the User-Agent header for all scan requests.
func WithUserAgent(ua string) Option {
	return func(s *Scanner) {
		s.userAgent = ua
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner for the given target. The URL is normalized once
// here: a missing scheme gets an http:// prefix.
func New(target string, client *http.Client, opts ...Option) *Scanner {
	s := &Scanner{
		target:      NormalizeURL(target),
		client:      client,
		timeout:     config.DefaultScanTimeout,
		pathTimeout: config.DefaultPathProbeTimeout,
		userAgent:   config.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.dial == nil {
		s.dial = net.Dial
	}

	return s
}

// NormalizeURL prefixes http:// when raw carries no scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http") {
		return "http://" + raw
	}
	return raw
}

// Target returns the normalized target URL.
func (s *Scanner) Target() string {
	return s.target
}

// Analyze runs the scan and returns its report.
//
// The mandatory passes always run in a fixed order against the single
// fetched response. Deep probes run afterwards, only in detail mode, and
// each failure is local: the report is always structurally complete.
func (s *Scanner) Analyze(ctx context.Context) *model.ScanReport {
	report := model.NewScanReport(s.target)

	s.logger.Info("starting scan", "url", s.target, "detail", s.detail)

	resp, body, err := s.fetch(ctx, s.target, s.client, s.timeout)
	if err != nil {
		report.Error = fmt.Sprintf("failed to fetch page: %v", err)
		s.logger.Error("initial fetch failed", "url", s.target, "error", err)
		return report
	}

	// goquery tolerates malformed markup; parse errors only occur on
	// reader failures, which cannot happen on a byte slice.
	doc, _ := goquery.NewDocumentFromReader(bytes.NewReader(body))

	report.AddFindings(model.CategoryHeaders, analyzeHeaders(resp.Header))
	s.analyzeTLS(report)
	report.AddFindings(model.CategoryCookies, analyzeCookies(resp.Cookies()))
	report.AddFindings(model.CategoryMeta, analyzeMeta(doc))
	report.AddFindings(model.CategoryForms, analyzeForms(doc))
	report.AddFindings(model.CategoryScripts, analyzeScripts(doc))

	if s.detail {
		s.logger.Info("running deep inspection", "url", s.target)
		s.checkRedirectBehavior(ctx, report)
		s.probeHiddenPaths(ctx, report)
		s.detectHoneypot(ctx, doc, report)
	} else {
		report.MarkPass(model.CategoryRedirect, model.PassSkipped)
		report.MarkPass(model.CategoryHiddenPaths, model.PassSkipped)
		report.MarkPass(model.CategoryHoneypot, model.PassSkipped)
	}

	applyRisk(report)

	s.logger.Info("scan complete",
		"url", s.target,
		"risk_score", report.RiskScore,
		"threat_level", report.ThreatLevel.String(),
	)

	return report
}

// fetch performs one GET with its own timeout and returns the response
// metadata plus the fully read body. The body is capped at maxBodyBytes.
func (s *Scanner) fetch(ctx context.Context, url string, client *http.Client, timeout time.Duration) (*http.Response, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, err
	}

	return resp, body, nil
}
