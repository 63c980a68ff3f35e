// Package scanner audits a single web target and produces a scored report.
//
// A scan is one page fetch followed by a fixed sequence of analyzer passes
// over the response and parsed document: headers, TLS certificate, cookies,
// meta tags, forms, and inline scripts. Detail mode adds three deep probes
// that issue further requests against the same target: redirect-chain
// behavior, hidden-path enumeration, and honeypot heuristics.
//
// Passes are independent and never read each other's output. A failed deep
// probe contributes no findings but records its failure in the report's
// pass status. Only a failed initial fetch aborts a scan; it yields a
// report carrying the error text and nothing else.
package scanner
