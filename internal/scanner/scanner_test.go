package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/darkvigil/darkvigil/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// deadDialer fails every raw dial, forcing the certificate pass into its
// single-finding failure path deterministically.
func deadDialer(string, string) (net.Conn, error) {
	return nil, errors.New("dial blocked")
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare host gets http prefix", in: "example.onion", want: "http://example.onion"},
		{name: "http kept", in: "http://example.onion", want: "http://example.onion"},
		{name: "https kept", in: "https://example.com", want: "https://example.com"},
		{name: "surrounding whitespace trimmed", in: "  example.com ", want: "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScanner_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("fetch failure yields an error-only report", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		s := New(url, http.DefaultClient,
			WithDialer(deadDialer),
			WithLogger(testLogger()),
		)

		report := s.Analyze(context.Background())

		if report.Error == "" {
			t.Fatal("expected error field to be set")
		}
		if len(report.Findings) != 0 {
			t.Errorf("expected no findings, got %v", report.Findings)
		}
		if report.URL != url {
			t.Errorf("report URL = %q, want %q", report.URL, url)
		}
	})

	t.Run("mandatory passes populate every category", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Server", "darkhttpd")
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "x"})
			fmt.Fprint(w, `<html><head><meta name="generator" content="Hugo"></head>`+
				`<body><form><input name="q"></form><script>eval(x)</script></body></html>`)
		}))
		defer srv.Close()

		s := New(srv.URL, srv.Client(),
			WithDialer(deadDialer),
			WithLogger(testLogger()),
		)

		report := s.Analyze(context.Background())

		wantCounts := map[model.Category]int{
			model.CategoryHeaders: 4, // server leak + 3 missing hardening headers
			model.CategorySSL:     1, // dialer refuses, one check-failed finding
			model.CategoryCookies: 2,
			model.CategoryMeta:    1,
			model.CategoryForms:   2,
			model.CategoryScripts: 1,
		}
		for cat, want := range wantCounts {
			if got := len(report.Findings[cat]); got != want {
				t.Errorf("%s: %d findings, want %d: %v", cat, got, want, report.Findings[cat])
			}
		}

		// 11 findings, weighted total 55.
		if report.RiskScore != 55 {
			t.Errorf("risk score = %d, want 55", report.RiskScore)
		}
		if report.ThreatLevel != model.ThreatHigh {
			t.Errorf("threat level = %s, want HIGH", report.ThreatLevel)
		}
	})

	t.Run("deep probes are skipped outside detail mode", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "<html></html>")
		}))
		defer srv.Close()

		s := New(srv.URL, srv.Client(),
			WithDialer(deadDialer),
			WithLogger(testLogger()),
		)

		report := s.Analyze(context.Background())

		for _, cat := range []model.Category{
			model.CategoryRedirect,
			model.CategoryHiddenPaths,
			model.CategoryHoneypot,
		} {
			if report.PassStatus[cat] != model.PassSkipped {
				t.Errorf("%s: pass status = %q, want skipped", cat, report.PassStatus[cat])
			}
			if _, ok := report.Findings[cat]; ok {
				t.Errorf("%s: skipped probe must not create a findings entry", cat)
			}
		}
	})

	t.Run("detail mode runs the deep probes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/admin" {
				w.WriteHeader(http.StatusOK)
				return
			}
			if r.URL.Path != "/" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, "<html><body>page %s</body></html>", r.URL.RawQuery)
		}))
		defer srv.Close()

		s := New(srv.URL, srv.Client(),
			WithDetail(true),
			WithNoRedirectClient(noRedirectClient()),
			WithDialer(deadDialer),
			WithLogger(testLogger()),
		)

		report := s.Analyze(context.Background())

		for _, cat := range []model.Category{
			model.CategoryRedirect,
			model.CategoryHiddenPaths,
			model.CategoryHoneypot,
		} {
			if report.PassStatus[cat] != model.PassOK {
				t.Errorf("%s: pass status = %q, want ok", cat, report.PassStatus[cat])
			}
		}
		assertFindings(t, report.Findings[model.CategoryHiddenPaths], []model.Finding{"/admin"})
	})

	t.Run("repeated scans produce identical findings", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Powered-By", "Express")
			fmt.Fprint(w, `<html><body><form action="/s"><input name="csrf"></form></body></html>`)
		}))
		defer srv.Close()

		s := New(srv.URL, srv.Client(),
			WithDialer(deadDialer),
			WithLogger(testLogger()),
		)

		first := s.Analyze(context.Background())
		second := s.Analyze(context.Background())

		if !reflect.DeepEqual(first.Findings, second.Findings) {
			t.Errorf("findings differ between scans:\nfirst:  %v\nsecond: %v", first.Findings, second.Findings)
		}
		if first.RiskScore != second.RiskScore {
			t.Errorf("risk scores differ: %d vs %d", first.RiskScore, second.RiskScore)
		}
	})
}
