package model

import "time"

// Category groups findings by the analyzer pass that produced them.
type Category string

// Finding categories, one per analyzer pass. The first six are mandatory
// passes; redirect, hidden_paths and honeypot are deep probes that run only
// in detail mode.
const (
	CategoryHeaders     Category = "headers"
	CategorySSL         Category = "ssl"
	CategoryCookies     Category = "cookies"
	CategoryMeta        Category = "meta"
	CategoryForms       Category = "forms"
	CategoryScripts     Category = "scripts"
	CategoryRedirect    Category = "redirect"
	CategoryHiddenPaths Category = "hidden_paths"
	CategoryHoneypot    Category = "honeypot"
)

// Finding is one detected issue, described as human-readable text.
// Findings are append-only within a scan.
type Finding string

// PassStatus records how a pass concluded. Deep probes suppress their own
// failures by design; the status keeps that suppression observable.
type PassStatus string

const (
	// PassOK means the pass ran to completion. It may still have produced
	// zero findings.
	PassOK PassStatus = "ok"

	// PassFailed means the pass aborted on a transport error and its
	// findings (if any) were discarded.
	PassFailed PassStatus = "failed"

	// PassSkipped means the pass did not run, e.g. a deep probe outside
	// detail mode.
	PassSkipped PassStatus = "skipped"
)

// ScanReport is the complete outcome of one target audit.
//
// A report is created once per Analyze invocation, mutated only by the
// analyzer passes and the risk aggregator during that invocation, and
// immutable thereafter.
type ScanReport struct {
	// URL is the normalized (scheme-prefixed) target address.
	URL string `json:"url"`

	// Timestamp is when the scan started.
	Timestamp time.Time `json:"timestamp"`

	// Findings maps each category to its ordered findings. Categories whose
	// pass ran but detected nothing map to an empty slice.
	Findings map[Category][]Finding `json:"detected_issues"`

	// PassStatus records the outcome of every pass that was considered.
	PassStatus map[Category]PassStatus `json:"pass_status,omitempty"`

	// SSLIssuer is the certificate issuer when the TLS pass succeeded.
	SSLIssuer string `json:"ssl_issuer,omitempty"`

	// SSLExpiry is the certificate NotAfter timestamp (RFC 3339) when the
	// TLS pass succeeded.
	SSLExpiry string `json:"ssl_expiry,omitempty"`

	// RiskScore is the clamped weighted finding total, in [0,100].
	RiskScore int `json:"risk_score"`

	// ThreatLevel classifies the pre-clamp weighted total.
	ThreatLevel ThreatLevel `json:"threat_level"`

	// Error is set only when the initial page fetch failed. In that case
	// no passes ran and Findings is empty.
	Error string `json:"error,omitempty"`
}

// NewScanReport creates an empty report for the given normalized URL.
func NewScanReport(url string) *ScanReport {
	return &ScanReport{
		URL:        url,
		Timestamp:  time.Now(),
		Findings:   make(map[Category][]Finding),
		PassStatus: make(map[Category]PassStatus),
	}
}

// AddFindings records a pass's findings under its category and marks the
// pass as completed. Passing an empty slice still creates the category key,
// so callers can distinguish "ran clean" from "never ran".
func (r *ScanReport) AddFindings(cat Category, findings []Finding) {
	if r.Findings[cat] == nil {
		r.Findings[cat] = make([]Finding, 0, len(findings))
	}
	r.Findings[cat] = append(r.Findings[cat], findings...)
	r.PassStatus[cat] = PassOK
}

// MarkPass records the outcome of a pass without contributing findings.
func (r *ScanReport) MarkPass(cat Category, status PassStatus) {
	r.PassStatus[cat] = status
}

// TotalFindings returns the finding count across all categories.
func (r *ScanReport) TotalFindings() int {
	var n int
	for _, findings := range r.Findings {
		n += len(findings)
	}
	return n
}
