package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/darkvigil/darkvigil/internal/model"
)

func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing target")
		}
		if err := cmd.Args(cmd, []string{"example.onion"}); err != nil {
			t.Errorf("unexpected error for one target: %v", err)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"external-tor", "tor-timeout", "detail", "timeout", "json", "db"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

func TestBuildAuditConfig(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()
	if err := cmd.ParseFlags([]string{"--detail", "--timeout", "3s", "--db"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := buildAuditConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Detail {
		t.Error("expected detail mode")
	}
	if cfg.ScanTimeout != 3*time.Second {
		t.Errorf("timeout = %s, want 3s", cfg.ScanTimeout)
	}
	if !cfg.SaveToDB {
		t.Error("expected db persistence")
	}
}

func TestWriteReportText(t *testing.T) {
	t.Parallel()

	t.Run("error-only report prints the error and stops", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport("http://target.onion")
		report.Error = "failed to fetch page: connection refused"

		var buf bytes.Buffer
		writeReportText(&buf, report)

		output := buf.String()
		if !strings.Contains(output, "connection refused") {
			t.Error("expected error text in output")
		}
		if strings.Contains(output, "Risk score") {
			t.Error("error-only report must not print a score")
		}
	})

	t.Run("full report prints score tier and findings", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport("http://target.onion")
		report.Timestamp = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		report.AddFindings(model.CategoryHeaders, []model.Finding{"Missing CSP header"})
		report.MarkPass(model.CategoryHoneypot, model.PassFailed)
		report.RiskScore = 5
		report.ThreatLevel = model.ThreatLow

		var buf bytes.Buffer
		writeReportText(&buf, report)

		output := buf.String()
		if !strings.Contains(output, "Risk score:   5/100") {
			t.Error("expected risk score line")
		}
		if !strings.Contains(output, "Threat level: LOW") {
			t.Error("expected threat level line")
		}
		if !strings.Contains(output, "- Missing CSP header") {
			t.Error("expected finding line")
		}
		if !strings.Contains(output, "honeypot probe failed") {
			t.Error("expected failed-probe note")
		}
	})
}

func TestWriteReportJSON(t *testing.T) {
	t.Parallel()

	report := model.NewScanReport("http://target.onion")
	report.AddFindings(model.CategoryHeaders, []model.Finding{"Missing HSTS header"})
	report.ThreatLevel = model.ThreatMedium

	var buf bytes.Buffer
	if err := writeReportJSON(&buf, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"detected_issues"`) {
		t.Error("expected findings key in JSON output")
	}
	if !strings.Contains(output, `"MEDIUM"`) {
		t.Error("expected threat tier encoded as its name")
	}
}
