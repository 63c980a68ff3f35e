package tor

import "errors"

// Proxy connectivity errors. Distinguishing failure modes lets the CLI give
// actionable messages (start Tor vs fix the address) instead of a generic
// connection error.
var (
	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrProxyUnreachable is returned when no TCP connection can be made
	// to the proxy address. Tor is probably not running.
	ErrProxyUnreachable = errors.New("cannot connect to Tor proxy")

	// ErrProxyNotSOCKS5 is returned when the proxy answers but does not
	// speak SOCKS5, e.g. an HTTP proxy on the configured port.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrNotRunning is returned when the embedded Tor daemon is used
	// before Start succeeded.
	ErrNotRunning = errors.New("embedded Tor daemon is not running")
)
