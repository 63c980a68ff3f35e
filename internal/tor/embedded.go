package tor

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// Embedded manages an embedded Tor daemon via tornago, so the tool works
// without a system Tor installation. Bootstrap typically takes one to
// three minutes on first start.
type Embedded struct {
	// process is the running Tor daemon, nil until Start succeeds.
	process *tornago.TorProcess

	// socksAddr is the daemon's SOCKS5 address, set after startup.
	socksAddr string

	// startupTimeout bounds the bootstrap wait.
	startupTimeout time.Duration
}

// NewEmbedded creates an embedded Tor manager. Call Start to launch.
func NewEmbedded(startupTimeout time.Duration) *Embedded {
	return &Embedded{startupTimeout: startupTimeout}
}

// Start launches the Tor daemon and blocks until it bootstraps or the
// timeout expires. Ports are OS-assigned so parallel instances don't clash.
func (e *Embedded) Start(ctx context.Context) error {
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(e.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start embedded Tor daemon: %w", err)
	}

	select {
	case <-ctx.Done():
		_ = process.Stop() //nolint:errcheck // best-effort cleanup
		return ctx.Err()
	default:
	}

	e.process = process
	e.socksAddr = process.SocksAddr()
	return nil
}

// Stop shuts the daemon down. Safe to call twice or before Start.
func (e *Embedded) Stop() error {
	if e.process == nil {
		return nil
	}
	err := e.process.Stop()
	e.process = nil
	return err
}

// SocksAddr returns the daemon's SOCKS5 address, empty when not running.
func (e *Embedded) SocksAddr() string {
	return e.socksAddr
}

// NewClient creates a Tor client pointed at the embedded daemon.
func (e *Embedded) NewClient() (*Client, error) {
	if e.process == nil {
		return nil, ErrNotRunning
	}
	return NewClient(e.socksAddr)
}
