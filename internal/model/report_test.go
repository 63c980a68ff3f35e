package model

import "testing"

// TestScanReportFindings tests finding bookkeeping and pass status tracking.
func TestScanReportFindings(t *testing.T) {
	t.Parallel()

	r := NewScanReport("http://example.onion")

	r.AddFindings(CategoryHeaders, []Finding{"Missing HSTS header", "Missing CSP header"})
	r.AddFindings(CategoryCookies, []Finding{})
	r.MarkPass(CategoryRedirect, PassSkipped)
	r.MarkPass(CategoryHoneypot, PassFailed)

	if got := r.TotalFindings(); got != 2 {
		t.Errorf("TotalFindings = %d, want 2", got)
	}

	// A clean pass still creates the category key.
	cookies, ok := r.Findings[CategoryCookies]
	if !ok {
		t.Fatal("clean pass must create its category key")
	}
	if len(cookies) != 0 {
		t.Errorf("clean pass has %d findings, want 0", len(cookies))
	}

	if r.PassStatus[CategoryHeaders] != PassOK {
		t.Errorf("headers status = %s, want ok", r.PassStatus[CategoryHeaders])
	}
	if r.PassStatus[CategoryRedirect] != PassSkipped {
		t.Errorf("redirect status = %s, want skipped", r.PassStatus[CategoryRedirect])
	}
	if r.PassStatus[CategoryHoneypot] != PassFailed {
		t.Errorf("honeypot status = %s, want failed", r.PassStatus[CategoryHoneypot])
	}
}

// TestScanReportAppendOnly tests that repeated AddFindings calls append
// rather than replace.
func TestScanReportAppendOnly(t *testing.T) {
	t.Parallel()

	r := NewScanReport("http://example.onion")
	r.AddFindings(CategoryScripts, []Finding{"Suspicious JavaScript function used"})
	r.AddFindings(CategoryScripts, []Finding{"Base64 obfuscation pattern detected"})

	if len(r.Findings[CategoryScripts]) != 2 {
		t.Errorf("findings = %d, want 2", len(r.Findings[CategoryScripts]))
	}
}
