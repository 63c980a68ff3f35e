package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkvigil/darkvigil/internal/model"
)

func TestLivenessChecker_CheckAll(t *testing.T) {
	t.Parallel()

	t.Run("every record comes back with liveness recorded", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/dead":
				w.WriteHeader(http.StatusServiceUnavailable)
			case "/missing":
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer srv.Close()

		records := []*model.SearchResult{
			model.NewSearchResult("Up", srv.URL+"/ok", "responds 200"),
			model.NewSearchResult("Down", srv.URL+"/dead", "responds 503"),
			model.NewSearchResult("Missing", srv.URL+"/missing", "responds 404"),
		}

		checker := NewLivenessChecker(srv.Client(), WithLivenessLogger(testLogger()))
		got := checker.CheckAll(context.Background(), records)

		if len(got) != len(records) {
			t.Fatalf("expected %d records, got %d", len(records), len(got))
		}

		wantAlive := map[string]bool{
			"Up":      true,
			"Down":    false,
			"Missing": true, // 404 still proves a live daemon
		}
		for _, record := range got {
			alive, checked := record.IsAlive()
			if !checked {
				t.Errorf("%s: liveness not recorded", record.Title)
				continue
			}
			if alive != wantAlive[record.Title] {
				t.Errorf("%s: alive = %v, want %v", record.Title, alive, wantAlive[record.Title])
			}
		}
	})

	t.Run("unreachable service is dead", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		records := []*model.SearchResult{
			model.NewSearchResult("Gone", url, "nothing listens here"),
		}

		checker := NewLivenessChecker(http.DefaultClient, WithLivenessLogger(testLogger()))
		got := checker.CheckAll(context.Background(), records)

		alive, checked := got[0].IsAlive()
		if !checked {
			t.Fatal("liveness not recorded")
		}
		if alive {
			t.Error("expected unreachable service to be dead")
		}
	})

	t.Run("worker bound holds under load", func(t *testing.T) {
		t.Parallel()

		const workers = 3

		inflight := make(chan struct{}, workers+1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			inflight <- struct{}{}
			defer func() { <-inflight }()
			time.Sleep(20 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		records := make([]*model.SearchResult, 12)
		for i := range records {
			records[i] = model.NewSearchResult(
				fmt.Sprintf("svc-%d", i),
				fmt.Sprintf("%s/%d", srv.URL, i),
				"load test",
			)
		}

		checker := NewLivenessChecker(srv.Client(),
			WithLivenessWorkers(workers),
			WithLivenessLogger(testLogger()),
		)
		got := checker.CheckAll(context.Background(), records)

		if len(inflight) != 0 {
			t.Errorf("expected no lingering in-flight probes, got %d", len(inflight))
		}
		for _, record := range got {
			if _, checked := record.IsAlive(); !checked {
				t.Errorf("%s: liveness not recorded", record.Title)
			}
		}
	})

	t.Run("slow service times out as dead", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		records := []*model.SearchResult{
			model.NewSearchResult("Slow", srv.URL, "never answers in time"),
		}

		checker := NewLivenessChecker(srv.Client(),
			WithLivenessTimeout(20*time.Millisecond),
			WithLivenessLogger(testLogger()),
		)
		got := checker.CheckAll(context.Background(), records)

		alive, checked := got[0].IsAlive()
		if !checked {
			t.Fatal("liveness not recorded")
		}
		if alive {
			t.Error("expected timed-out probe to mark the service dead")
		}
	})
}
