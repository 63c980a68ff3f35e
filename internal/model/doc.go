// Package model defines the data structures shared by the search crawler
// and the vulnerability scanner.
//
// The package contains no behavior beyond construction and serialization
// helpers. It is imported by every other internal package, so it must not
// import any of them.
//
//   - SearchResult / CrawlResult: output of a multi-engine search crawl
//   - Finding / Category / ScanReport: output of a target audit
//   - ThreatLevel: discrete risk classification derived from findings
package model
