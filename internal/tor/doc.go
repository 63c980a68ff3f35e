// Package tor provides the anonymizing HTTP transport used by the crawler
// and the scanner.
//
// The Client wraps a SOCKS5 dialer pointed at a Tor proxy and builds
// http.Client values from it. Components never dial directly; they receive
// pre-configured clients, which keeps them testable against httptest servers.
//
//   - Client: SOCKS5-backed HTTP client factory with a proxy health check
//   - Embedded: tornago-managed Tor daemon for out-of-the-box operation
//   - onion address helpers: v3 checksum validation
package tor
