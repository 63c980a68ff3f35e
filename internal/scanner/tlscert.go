package scanner

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/darkvigil/darkvigil/internal/model"
)

// tlsPort is where the certificate pass handshakes, regardless of the
// target URL's scheme or port.
const tlsPort = "443"

// tlsTimeout bounds the dial plus handshake of the certificate pass.
const tlsTimeout = 5 * time.Second

// analyzeTLS reads the peer certificate's issuer and expiry. Certificate
// fields are read, not validated; hidden services self-sign routinely.
// Any connection or handshake failure degrades to a single finding.
func (s *Scanner) analyzeTLS(report *model.ScanReport) {
	s.logger.Info("checking tls certificate", "url", s.target)

	issuer, expiry, err := s.peerCertificate()
	if err != nil {
		report.AddFindings(model.CategorySSL, []model.Finding{
			model.Finding(fmt.Sprintf("SSL check failed: %v", err)),
		})
		return
	}

	report.SSLIssuer = issuer
	report.SSLExpiry = expiry
	report.AddFindings(model.CategorySSL, nil)
}

// peerCertificate handshakes with the target's TLS port and returns the
// leaf certificate's issuer and NotAfter timestamp.
func (s *Scanner) peerCertificate() (issuer, expiry string, err error) {
	parsed, err := url.Parse(s.target)
	if err != nil || parsed.Hostname() == "" {
		return "", "", errors.New("no hostname in target URL")
	}
	host := parsed.Hostname()

	rawConn, err := s.dial("tcp", net.JoinHostPort(host, tlsPort))
	if err != nil {
		return "", "", err
	}
	defer rawConn.Close()

	if err := rawConn.SetDeadline(time.Now().Add(tlsTimeout)); err != nil {
		return "", "", err
	}

	conn := tls.Client(rawConn, &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true, //nolint:gosec // fields are read, not trusted
	})
	if err := conn.Handshake(); err != nil {
		return "", "", err
	}

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return "", "", errors.New("no peer certificate presented")
	}
	leaf := certs[0]

	return leaf.Issuer.String(), leaf.NotAfter.Format(time.RFC3339), nil
}
