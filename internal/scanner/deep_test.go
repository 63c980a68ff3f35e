package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkvigil/darkvigil/internal/model"
)

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestScanner_checkRedirectBehavior(t *testing.T) {
	t.Parallel()

	// redirectServer redirects /hop/i to /hop/i+1 for i < hops, then 200s.
	redirectServer := func(hops int) *httptest.Server {
		mux := http.NewServeMux()
		for i := range hops {
			next := fmt.Sprintf("/hop/%d", i+1)
			mux.HandleFunc(fmt.Sprintf("/hop/%d", i), func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, next, http.StatusFound)
			})
		}
		mux.HandleFunc(fmt.Sprintf("/hop/%d", hops), func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		return httptest.NewServer(mux)
	}

	t.Run("six distinct targets raise the trap finding", func(t *testing.T) {
		t.Parallel()

		srv := redirectServer(6)
		defer srv.Close()

		s := New(srv.URL+"/hop/0", srv.Client(),
			WithNoRedirectClient(noRedirectClient()),
			WithLogger(testLogger()),
		)

		report := model.NewScanReport(s.Target())
		s.checkRedirectBehavior(context.Background(), report)

		want := []model.Finding{"Multiple chained redirects (possible trap)"}
		assertFindings(t, report.Findings[model.CategoryRedirect], want)
		if report.PassStatus[model.CategoryRedirect] != model.PassOK {
			t.Errorf("pass status = %q, want ok", report.PassStatus[model.CategoryRedirect])
		}
	})

	t.Run("five distinct targets stay silent", func(t *testing.T) {
		t.Parallel()

		srv := redirectServer(5)
		defer srv.Close()

		s := New(srv.URL+"/hop/0", srv.Client(),
			WithNoRedirectClient(noRedirectClient()),
			WithLogger(testLogger()),
		)

		report := model.NewScanReport(s.Target())
		s.checkRedirectBehavior(context.Background(), report)

		assertFindings(t, report.Findings[model.CategoryRedirect], []model.Finding{})
	})

	t.Run("redirect loop stops on the repeated target", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/b", http.StatusFound)
		})
		mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/a", http.StatusFound)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		s := New(srv.URL+"/a", srv.Client(),
			WithNoRedirectClient(noRedirectClient()),
			WithLogger(testLogger()),
		)

		report := model.NewScanReport(s.Target())
		s.checkRedirectBehavior(context.Background(), report)

		// Two distinct targets, then /a repeats.
		assertFindings(t, report.Findings[model.CategoryRedirect], []model.Finding{})
	})

	t.Run("transport failure fails the probe without findings", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		s := New(url, http.DefaultClient,
			WithNoRedirectClient(noRedirectClient()),
			WithLogger(testLogger()),
		)

		report := model.NewScanReport(s.Target())
		s.checkRedirectBehavior(context.Background(), report)

		if _, ok := report.Findings[model.CategoryRedirect]; ok {
			t.Error("failed probe must not create a findings entry")
		}
		if report.PassStatus[model.CategoryRedirect] != model.PassFailed {
			t.Errorf("pass status = %q, want failed", report.PassStatus[model.CategoryRedirect])
		}
	})
}

func TestScanner_probeHiddenPaths(t *testing.T) {
	t.Parallel()

	t.Run("exposed paths become findings in probe order", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/.env", "/admin":
				w.WriteHeader(http.StatusOK)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		s := New(srv.URL, srv.Client(), WithLogger(testLogger()))

		report := model.NewScanReport(s.Target())
		s.probeHiddenPaths(context.Background(), report)

		want := []model.Finding{"/.env", "/admin"}
		assertFindings(t, report.Findings[model.CategoryHiddenPaths], want)
		if report.PassStatus[model.CategoryHiddenPaths] != model.PassOK {
			t.Errorf("pass status = %q, want ok", report.PassStatus[model.CategoryHiddenPaths])
		}
	})

	t.Run("unreachable target still completes with empty findings", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		s := New(url, http.DefaultClient, WithLogger(testLogger()))

		report := model.NewScanReport(s.Target())
		s.probeHiddenPaths(context.Background(), report)

		assertFindings(t, report.Findings[model.CategoryHiddenPaths], []model.Finding{})
		if report.PassStatus[model.CategoryHiddenPaths] != model.PassOK {
			t.Errorf("pass status = %q, want ok", report.PassStatus[model.CategoryHiddenPaths])
		}
	})
}

func TestScanner_detectHoneypot(t *testing.T) {
	t.Parallel()

	t.Run("identical responses and hidden elements are separate findings", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "<html><body>static page</body></html>")
		}))
		defer srv.Close()

		doc := parseDoc(t, `<html><body><div style="display:none">bait</div></body></html>`)

		s := New(srv.URL, srv.Client(), WithLogger(testLogger()))

		report := model.NewScanReport(s.Target())
		s.detectHoneypot(context.Background(), doc, report)

		want := []model.Finding{
			"Identical response for unrelated queries",
			"Invisible HTML element detected",
		}
		assertFindings(t, report.Findings[model.CategoryHoneypot], want)
	})

	t.Run("query-sensitive responses with visible markup stay clean", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "<html><body>results for %s</body></html>", r.URL.Query().Get("q"))
		}))
		defer srv.Close()

		doc := parseDoc(t, `<html><body><p style="color:red">visible</p></body></html>`)

		s := New(srv.URL, srv.Client(), WithLogger(testLogger()))

		report := model.NewScanReport(s.Target())
		s.detectHoneypot(context.Background(), doc, report)

		assertFindings(t, report.Findings[model.CategoryHoneypot], []model.Finding{})
	})

	t.Run("transport failure fails the probe", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		doc := parseDoc(t, `<html></html>`)

		s := New(url, http.DefaultClient, WithLogger(testLogger()))

		report := model.NewScanReport(s.Target())
		s.detectHoneypot(context.Background(), doc, report)

		if _, ok := report.Findings[model.CategoryHoneypot]; ok {
			t.Error("failed probe must not create a findings entry")
		}
		if report.PassStatus[model.CategoryHoneypot] != model.PassFailed {
			t.Errorf("pass status = %q, want failed", report.PassStatus[model.CategoryHoneypot])
		}
	})
}
