// Package engine defines the hidden-service search engines known to the
// crawler and the per-engine result extractors.
//
// Every engine has its own markup quirks; each Extractor isolates them
// behind a single method so the crawl orchestrator never branches on engine
// identity. Adding an engine means writing one Extractor and registering
// one Config; nothing else changes.
//
// Extractors are forgiving by contract: malformed or incomplete markup
// degrades to documented defaults ("No Title", "No Description", domain
// "Unknown") and never errors.
package engine
