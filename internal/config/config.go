package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Timeouts are generous where Tor latency
// matters and short where a slow answer is as good as no answer.
const (
	// DefaultProxyAddress is the standard Tor SOCKS5 proxy address.
	// 127.0.0.1 rather than localhost avoids IPv6 resolution surprises.
	DefaultProxyAddress = "127.0.0.1:9050"

	// DefaultSearchTimeout bounds one search-engine query. Hidden-service
	// search engines are slow; 15 seconds matches their typical worst case.
	DefaultSearchTimeout = 15 * time.Second

	// DefaultProbeTimeout bounds one liveness probe. Probes only need a
	// status line, so they get a shorter timeout than full queries.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultScanTimeout bounds the audit's initial page fetch.
	DefaultScanTimeout = 10 * time.Second

	// DefaultPathProbeTimeout bounds each hidden-path probe in detail mode.
	DefaultPathProbeTimeout = 5 * time.Second

	// DefaultWorkers is the liveness checker's concurrency ceiling.
	// Probes beyond this queue rather than spawn unboundedly, which keeps
	// the Tor daemon's circuit usage predictable.
	DefaultWorkers = 20

	// DefaultTorStartupTimeout is the maximum wait for the embedded Tor
	// daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultUserAgent mimics a common browser to avoid trivially
	// fingerprinting the scanner in target logs.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultEngineInterval is the minimum spacing between queries to
	// successive engines, enforced by a rate limiter.
	DefaultEngineInterval = 500 * time.Millisecond

	// AppName is used for XDG directory paths and export file names.
	AppName = "darkvigil"
)

// Config holds all runtime options. Populated from defaults, an optional
// config file, and CLI flags, then validated once before any network work.
type Config struct {
	// ProxyAddress is the Tor SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// UseExternalTor disables the embedded Tor daemon and uses the proxy
	// at ProxyAddress instead.
	UseExternalTor bool

	// TorStartupTimeout is the maximum wait for embedded Tor to bootstrap.
	TorStartupTimeout time.Duration

	// SearchTimeout bounds each search-engine query.
	SearchTimeout time.Duration

	// ProbeTimeout bounds each liveness probe.
	ProbeTimeout time.Duration

	// ScanTimeout bounds the audit's initial fetch.
	ScanTimeout time.Duration

	// Workers is the liveness checker's concurrency ceiling.
	Workers int

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// CheckAlive enables liveness verification of search results.
	CheckAlive bool

	// Detail enables the deep-probe passes during an audit.
	Detail bool

	// ExportFormat selects an export format for crawl results
	// (json, csv, markdown, txt). Empty disables export.
	ExportFormat string

	// ExportDir is the directory for exported files. Empty uses the
	// default export path.
	ExportDir string

	// ConfigFilePath is an explicit config-file location. Empty triggers
	// the standard search (current directory, then XDG config dir).
	ConfigFilePath string

	// File holds the parsed config file, when one was found.
	File *File

	// SaveToDB persists crawl results and scan reports to the history
	// database under the XDG data directory.
	SaveToDB bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		ProxyAddress:      DefaultProxyAddress,
		TorStartupTimeout: DefaultTorStartupTimeout,
		SearchTimeout:     DefaultSearchTimeout,
		ProbeTimeout:      DefaultProbeTimeout,
		ScanTimeout:       DefaultScanTimeout,
		Workers:           DefaultWorkers,
		UserAgent:         DefaultUserAgent,
	}
}

// DataDir returns the XDG data directory for darkvigil
// (~/.local/share/darkvigil on Linux).
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for darkvigil.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultExportDir returns the directory used for exports when none is
// configured: the user's desktop when XDG knows it, the home directory
// otherwise.
func DefaultExportDir() string {
	if xdg.UserDirs.Desktop != "" {
		return xdg.UserDirs.Desktop
	}
	return xdg.Home
}

// Validate checks the configuration, returning the first problem found.
func (c *Config) Validate() error {
	if c.ProxyAddress == "" {
		return ErrNoProxyAddress
	}
	if c.SearchTimeout <= 0 || c.ProbeTimeout <= 0 || c.ScanTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	switch c.ExportFormat {
	case "", "json", "csv", "markdown", "txt":
	default:
		return ErrInvalidExportFormat
	}
	return nil
}
