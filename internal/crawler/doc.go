// Package crawler drives keyword searches across the registered
// hidden-service search engines.
//
// The Crawler queries engines sequentially; isolation between engines
// comes from per-engine error handling, not concurrency. The
// LivenessChecker probes harvested URLs through a bounded worker pool.
// One engine failing, timing out, or returning garbage never affects the
// others: its entry in the CrawlResult is simply empty.
//
// No retries are performed anywhere. A failed request degrades to an
// empty or partial result for that unit of work.
package crawler
