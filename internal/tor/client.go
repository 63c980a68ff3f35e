package tor

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkTimeout bounds the SOCKS5 health check. This only talks to the local
// proxy, not through Tor, so it can be short.
const checkTimeout = 2 * time.Second

// maxRedirects caps redirect following in clients that follow redirects.
const maxRedirects = 10

// Client builds HTTP clients that route through a Tor SOCKS5 proxy.
//
// It validates the proxy address at construction but does not touch the
// network until CheckConnection or a request is made, so a Client can be
// created before Tor is up.
type Client struct {
	// proxyAddress is the SOCKS5 proxy in "host:port" format.
	proxyAddress string

	// dialer is the cached SOCKS5 dialer.
	dialer proxy.Dialer
}

// NewClient creates a Tor client for the given SOCKS5 proxy address.
func NewClient(proxyAddress string) (*Client, error) {
	if !validProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// Tor's SOCKS port does not require authentication.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &Client{proxyAddress: proxyAddress, dialer: dialer}, nil
}

// validProxyAddress reports whether address is a plausible "host:port" pair.
func validProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// ProxyAddress returns the configured proxy address.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// transport builds the shared Tor-routed transport.
//
// TLS verification is off: hidden services use self-signed certificates and
// the onion address itself authenticates the service. Compression is off to
// avoid compression side channels over Tor circuits.
func (c *Client) transport() *http.Transport {
	return &http.Transport{
		DialContext: func(_ context.Context, network, addr string) (net.Conn, error) {
			return c.dialer.Dial(network, addr)
		},
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // self-signed certs are the norm on .onion
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
	}
}

// NewHTTPClient returns a Tor-routed client that follows redirects up to
// maxRedirects and keeps cookies across requests.
func (c *Client) NewHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil) //nolint:errcheck // cannot fail with nil options

	return &http.Client{
		Transport: c.transport(),
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// NewNoRedirectClient returns a Tor-routed client that never follows
// redirects. The redirect-behavior probe walks Location headers manually.
func (c *Client) NewNoRedirectClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: c.transport(),
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Dial opens a raw TCP connection through Tor. Used by the TLS certificate
// pass, which needs a TLS handshake outside any HTTP client.
func (c *Client) Dial(network, address string) (net.Conn, error) {
	return c.dialer.Dial(network, address)
}

// CheckConnection verifies that something at the proxy address speaks
// SOCKS5. It performs the version/auth negotiation only; no request is
// proxied.
func (c *Client) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProxyUnreachable, c.proxyAddress)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkTimeout)); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyUnreachable, c.proxyAddress)
	}

	// SOCKS5 greeting: version 5, one auth method, "no auth".
	if _, err := conn.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyUnreachable, c.proxyAddress)
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, c.proxyAddress)
	}
	if resp[0] != 0x05 || resp[1] != 0x00 {
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, c.proxyAddress)
	}

	return nil
}

// HostFromURL extracts the bare host (no port) from a URL-ish string.
// Convenience for callers that log or validate onion hosts.
func HostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		raw = raw[:i]
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		return host
	}
	return raw
}
